package kaggle

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

type blobUploadRequest struct {
	Type                     string `json:"type"`
	Name                     string `json:"name"`
	ContentLength            int64  `json:"contentLength"`
	LastModifiedEpochSeconds int64  `json:"lastModifiedEpochSeconds"`
}

type blobUploadResponse struct {
	Token     string `json:"token"`
	CreateURL string `json:"createUrl"`
}

type uploadFile struct {
	Token string `json:"token"`
}

type createVersionRequest struct {
	VersionNotes      string       `json:"versionNotes"`
	DeleteOldVersions bool         `json:"deleteOldVersions"`
	Files             []uploadFile `json:"files"`
	ConvertToCsv      bool         `json:"convertToCsv"`
	CategoryIDs       []string     `json:"categoryIds"`
}

type createVersionResponse struct {
	Ref    string `json:"ref"`
	URL    string `json:"url"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// CreateVersion uploads files and publishes them as a new version of the dataset.
func (c *Client) CreateVersion(ctx context.Context, datasetID string, files []string, notes string) error {
	id, err := ParseDatasetID(datasetID)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "no files to upload")
	}

	tokens := make([]uploadFile, 0, len(files))

	for _, path := range files {
		token, err := c.uploadBlob(ctx, path)
		if err != nil {
			return err
		}

		tokens = append(tokens, uploadFile{Token: token})
	}

	var result createVersionResponse

	resp, err := c.api.R().
		SetContext(ctx).
		SetPathParams(id.pathParams()).
		SetBody(createVersionRequest{
			VersionNotes: notes,
			Files:        tokens,
			ConvertToCsv: true,
			CategoryIDs:  []string{},
		}).
		SetResult(&result).
		SetError(&apiError{}).
		Post("/datasets/create/version/{owner}/{slug}")
	if err := checkResponse(resp, err, "create version of "+id.String()); err != nil {
		return errors.Wrap(errors.ErrCodeHostUploadFailed, "failed to create dataset version", err)
	}

	if result.Error != "" {
		return errors.Newf(errors.ErrCodeHostUploadFailed, "create version of %s: %s", id, result.Error)
	}

	c.logger.Info("Created dataset version",
		zap.String("dataset", id.String()),
		zap.String("url", result.URL),
		zap.String("status", result.Status),
	)

	return nil
}

// uploadBlob registers a blob for path, uploads the file content and returns its token.
func (c *Client) uploadBlob(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeHostUploadFailed, err, "failed to stat %s", path)
	}

	var blob blobUploadResponse

	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(blobUploadRequest{
			Type:                     "dataset",
			Name:                     filepath.Base(path),
			ContentLength:            info.Size(),
			LastModifiedEpochSeconds: info.ModTime().Unix(),
		}).
		SetResult(&blob).
		SetError(&apiError{}).
		Post("/blobs/upload")
	if err := checkResponse(resp, err, "start upload of "+filepath.Base(path)); err != nil {
		return "", errors.Wrap(errors.ErrCodeHostUploadFailed, "failed to start blob upload", err)
	}

	if blob.Token == "" || blob.CreateURL == "" {
		return "", errors.Newf(errors.ErrCodeHostUploadFailed, "start upload of %s: missing token or upload url", filepath.Base(path))
	}

	content, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeHostUploadFailed, err, "failed to open %s", path)
	}
	defer content.Close()

	resp, err = c.upload.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetContentLength(true).
		SetBody(content).
		Put(blob.CreateURL)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeHostUploadFailed, err, "failed to upload %s", path)
	}

	if resp.IsError() {
		return "", errors.Newf(errors.ErrCodeHostUploadFailed, "upload %s: unexpected status %s", path, resp.Status())
	}

	c.logger.Debug("Uploaded blob", zap.String("path", path), zap.Int64("bytes", info.Size()))

	return blob.Token, nil
}
