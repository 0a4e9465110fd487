package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/internal/logger"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// Summary describes the content of a dataset CSV.
type Summary struct {
	Path     string
	Rows     int64
	Distinct int64
	First    optional.Option[time.Time]
	Last     optional.Option[time.Time]
	Days     int64
}

// Duplicates is the number of rows sharing a timestamp with an earlier row.
func (s Summary) Duplicates() int64 {
	return s.Rows - s.Distinct
}

// DayCount is the number of bars recorded on one trading day.
type DayCount struct {
	Day  time.Time
	Bars int64
}

// Inspector queries dataset CSV files through an in-memory DuckDB.
type Inspector struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func New(log *logger.Logger) (*Inspector, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetQueryFailed, "failed to open DuckDB connection", err)
	}

	return &Inspector{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (i *Inspector) Close() error {
	return i.db.Close()
}

// load points the dataset view at path.
func (i *Inspector) load(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrCodeDatasetNotFound, "dataset %s does not exist", path)
		}

		return errors.Wrapf(errors.ErrCodeDatasetReadFailed, err, "failed to stat %s", path)
	}

	// squirrel has no CREATE VIEW support
	query := fmt.Sprintf(`
		CREATE OR REPLACE VIEW dataset AS
		SELECT * FROM read_csv('%s', header = true, columns = {
			'datetime': 'TIMESTAMP',
			'symbol': 'VARCHAR',
			'open': 'DOUBLE',
			'high': 'DOUBLE',
			'low': 'DOUBLE',
			'close': 'DOUBLE',
			'volume': 'DOUBLE'
		});
	`, strings.ReplaceAll(path, "'", "''"))

	if _, err := i.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(errors.ErrCodeDatasetQueryFailed, err, "failed to load %s", path)
	}

	return nil
}

// Summarize counts rows, distinct timestamps and trading days and finds the time range.
func (i *Inspector) Summarize(ctx context.Context, path string) (Summary, error) {
	if err := i.load(ctx, path); err != nil {
		return Summary{}, err
	}

	query, args, err := i.sq.
		Select(
			"count(*)",
			"count(DISTINCT datetime)",
			"min(datetime)",
			"max(datetime)",
			"count(DISTINCT CAST(datetime AS DATE))",
		).
		From("dataset").
		ToSql()
	if err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeDatasetQueryFailed, "failed to build summary query", err)
	}

	var (
		summary     = Summary{Path: path}
		first, last sql.NullTime
	)

	err = i.db.QueryRowContext(ctx, query, args...).Scan(&summary.Rows, &summary.Distinct, &first, &last, &summary.Days)
	if err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeDatasetQueryFailed, err, "failed to summarize %s", path)
	}

	summary.First = nullTime(first)
	summary.Last = nullTime(last)

	i.logger.Debug("Summarized dataset",
		zap.String("path", path),
		zap.Int64("rows", summary.Rows),
		zap.Int64("days", summary.Days),
	)

	return summary, nil
}

// DailyCounts returns the number of bars per day, oldest day first. With since set, only
// days on or after it are returned.
func (i *Inspector) DailyCounts(ctx context.Context, path string, since optional.Option[time.Time]) ([]DayCount, error) {
	if err := i.load(ctx, path); err != nil {
		return nil, err
	}

	builder := i.sq.
		Select("CAST(datetime AS DATE) AS day", "count(*) AS bars").
		From("dataset").
		GroupBy("day").
		OrderBy("day")

	if since.IsSome() {
		// parameters bind as VARCHAR, DuckDB does not compare those with DATE implicitly
		builder = builder.Where(squirrel.Expr("CAST(datetime AS DATE) >= CAST(? AS DATE)", since.Unwrap().Format(time.DateOnly)))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetQueryFailed, "failed to build daily count query", err)
	}

	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDatasetQueryFailed, err, "failed to count bars per day in %s", path)
	}
	defer rows.Close()

	var counts []DayCount

	for rows.Next() {
		var count DayCount
		if err := rows.Scan(&count.Day, &count.Bars); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatasetQueryFailed, "failed to scan daily count", err)
		}

		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetQueryFailed, "failed to read daily counts", err)
	}

	return counts, nil
}

func nullTime(t sql.NullTime) optional.Option[time.Time] {
	if !t.Valid {
		return optional.None[time.Time]()
	}

	return optional.Some(t.Time.UTC())
}
