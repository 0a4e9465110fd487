package kaggle

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// MetadataFileName is the file DownloadMetadata writes.
const MetadataFileName = "dataset-metadata.json"

type metadataResponse struct {
	Info         json.RawMessage `json:"info"`
	ErrorMessage string          `json:"errorMessage"`
}

// apiError is the error body returned by the API.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DownloadMetadata fetches the dataset metadata and writes it to dir/dataset-metadata.json.
func (c *Client) DownloadMetadata(ctx context.Context, datasetID string, dir string) (string, error) {
	id, err := ParseDatasetID(datasetID)
	if err != nil {
		return "", err
	}

	var result metadataResponse

	resp, err := c.api.R().
		SetContext(ctx).
		SetPathParams(id.pathParams()).
		SetResult(&result).
		SetError(&apiError{}).
		Get("/datasets/metadata/{owner}/{slug}")
	if err := checkResponse(resp, err, "download metadata for "+id.String()); err != nil {
		return "", err
	}

	if result.ErrorMessage != "" {
		return "", errors.Newf(errors.ErrCodeHostRequestFailed, "download metadata for %s: %s", id, result.ErrorMessage)
	}

	if len(result.Info) == 0 || string(result.Info) == "null" {
		return "", errors.Newf(errors.ErrCodeHostRequestFailed, "download metadata for %s: empty metadata", id)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result.Info, "", "  "); err != nil {
		return "", errors.Wrap(errors.ErrCodeHostRequestFailed, "invalid metadata payload", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeHostRequestFailed, err, "failed to create %s", dir)
	}

	path := filepath.Join(dir, MetadataFileName)
	if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(errors.ErrCodeHostRequestFailed, err, "failed to write %s", path)
	}

	c.logger.Info("Downloaded dataset metadata", zap.String("dataset", id.String()), zap.String("path", path))

	return path, nil
}

// checkResponse turns transport failures and non-2xx responses into coded errors.
func checkResponse(resp *resty.Response, err error, action string) error {
	if err != nil {
		return errors.Wrapf(errors.ErrCodeHostRequestFailed, err, "%s", action)
	}

	if !resp.IsError() {
		return nil
	}

	code := errors.ErrCodeHostRequestFailed
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		code = errors.ErrCodeHostAuthMissing
	}

	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Message != "" {
		return errors.Newf(code, "%s: %s (%d)", action, apiErr.Message, resp.StatusCode())
	}

	return errors.Newf(code, "%s: unexpected status %s", action, resp.Status())
}
