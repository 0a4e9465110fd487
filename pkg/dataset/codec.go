package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// TimeLayout is the layout datetime values are written with.
const TimeLayout = "2006-01-02 15:04:05"

// parseLayouts are tried in order when reading datetime values.
var parseLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DateTime is a naive timestamp as stored in the datetime column.
type DateTime struct {
	time.Time
}

// MarshalCSV formats the timestamp with TimeLayout.
func (d *DateTime) MarshalCSV() (string, error) {
	return d.Time.Format(TimeLayout), nil
}

// UnmarshalCSV parses the timestamp with ParseTime.
func (d *DateTime) UnmarshalCSV(value string) (err error) {
	d.Time, err = ParseTime(value)

	return err
}

// ParseTime parses a datetime cell. Values without an offset are taken as naive wall-clock
// times; values with an offset are converted to UTC. The result is always in the UTC location.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeDatasetParseFailed, "unrecognized datetime %q", value)
}

// row is the CSV representation of a bar.
type row struct {
	Datetime DateTime `csv:"datetime"`
	Symbol   string   `csv:"symbol"`
	Open     float64  `csv:"open"`
	High     float64  `csv:"high"`
	Low      float64  `csv:"low"`
	Close    float64  `csv:"close"`
	Volume   float64  `csv:"volume"`
}

func toRow(bar types.MarketData) row {
	return row{
		Datetime: DateTime{Time: bar.Time},
		Symbol:   bar.Symbol,
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		Volume:   bar.Volume,
	}
}

func (r row) toMarketData() types.MarketData {
	return types.MarketData{
		Symbol: r.Symbol,
		Time:   r.Datetime.Time,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}

// Load reads the dataset at path. A missing file yields an empty dataset with Exists unset.
// Any other read or parse failure is returned.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Dataset{Path: path, Exists: false, Bars: nil}, nil
		}

		return nil, errors.Wrapf(errors.ErrCodeDatasetReadFailed, err, "failed to read dataset %s", path)
	}

	bars, err := Decode(path, data)
	if err != nil {
		return nil, err
	}

	return &Dataset{Path: path, Exists: true, Bars: bars}, nil
}

// Decode parses dataset CSV content. name is only used in error messages.
// Empty and header-only content decode to no bars.
func Decode(name string, data []byte) ([]types.MarketData, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDatasetParseFailed, err, "failed to read header of %s", name)
	}

	if err := CheckSchema(name, header); err != nil {
		return nil, err
	}

	if _, err := reader.Read(); err == io.EOF {
		return nil, nil
	}

	var rows []row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDatasetParseFailed, err, "failed to parse %s", name)
	}

	bars := make([]types.MarketData, len(rows))
	for i, r := range rows {
		bars[i] = r.toMarketData()
	}

	return bars, nil
}

// CheckSchema verifies that header holds exactly the dataset Columns, in any order.
func CheckSchema(name string, header []string) error {
	actual := make([]string, len(header))
	for i, column := range header {
		actual[i] = strings.TrimSpace(column)
	}

	sortedActual := slices.Clone(actual)
	slices.Sort(sortedActual)

	expected := slices.Clone(Columns)
	slices.Sort(expected)

	if !slices.Equal(sortedActual, expected) {
		return errors.Wrap(errors.ErrCodeSchemaMismatch, "dataset columns differ from the bar layout",
			errors.NewSchemaMismatchError(name, Columns, actual))
	}

	return nil
}

// Encode writes bars as dataset CSV, header first.
func Encode(w io.Writer, bars []types.MarketData) error {
	rows := make([]row, len(bars))
	for i, bar := range bars {
		rows[i] = toRow(bar)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(errors.ErrCodeDatasetWriteFailed, "failed to encode dataset", err)
	}

	return nil
}

// Save writes the dataset to its Path atomically: the content goes to a temporary file in
// the same directory, which is synced and then renamed over the target.
func Save(d *Dataset) error {
	return writeAtomic(d.Path, func(w io.Writer) error {
		return Encode(w, d.Bars)
	})
}

func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to create temporary file in %s", dir)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buffered := bufio.NewWriter(tmp)
	if err = write(buffered); err != nil {
		return err
	}

	if err = buffered.Flush(); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to write %s", tmp.Name())
	}

	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to chmod %s", tmp.Name())
	}

	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to sync %s", tmp.Name())
	}

	if err = tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to close %s", tmp.Name())
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to replace %s", path)
	}

	return nil
}
