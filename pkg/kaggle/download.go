package kaggle

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// DownloadDataset downloads the dataset archive and unzips it into dir, returning the
// extracted file paths.
func (c *Client) DownloadDataset(ctx context.Context, datasetID string, dir string) ([]string, error) {
	id, err := ParseDatasetID(datasetID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to create %s", dir)
	}

	resp, err := c.api.R().
		SetContext(ctx).
		SetPathParams(id.pathParams()).
		SetDoNotParseResponse(true).
		Get("/datasets/download/{owner}/{slug}")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHostRequestFailed, err, "download dataset %s", id)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		code := errors.ErrCodeHostRequestFailed
		if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
			code = errors.ErrCodeHostAuthMissing
		}

		return nil, errors.Newf(code, "download dataset %s: unexpected status %s", id, resp.Status())
	}

	archive, err := os.CreateTemp(dir, ".download-*.zip")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostArchiveFailed, "failed to create archive file", err)
	}

	archivePath := archive.Name()
	defer os.Remove(archivePath)

	bar := progressbar.NewOptions64(
		resp.RawResponse.ContentLength,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription("downloading "+id.String()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)

	written, err := io.Copy(io.MultiWriter(archive, bar), body)
	closeErr := archive.Close()
	_ = bar.Finish()

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHostRequestFailed, err, "download dataset %s", id)
	}

	if closeErr != nil {
		return nil, errors.Wrap(errors.ErrCodeHostArchiveFailed, "failed to write archive", closeErr)
	}

	c.logger.Debug("Downloaded dataset archive", zap.String("dataset", id.String()), zap.Int64("bytes", written))

	files, err := extract(archivePath, dir)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Extracted dataset",
		zap.String("dataset", id.String()),
		zap.String("dir", dir),
		zap.Strings("files", files),
	)

	return files, nil
}

// extract unzips archivePath into dir. Entries resolving outside dir are rejected.
func extract(archivePath string, dir string) ([]string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostArchiveFailed, "failed to open dataset archive", err)
	}
	defer reader.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostArchiveFailed, "failed to resolve extract dir", err)
	}

	var files []string

	for _, f := range reader.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return nil, errors.Newf(errors.ErrCodeHostArchiveFailed, "archive entry %q escapes %s", f.Name, dir)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeHostArchiveFailed, "failed to create directory", err)
			}

			continue
		}

		if err := extractFile(f, target); err != nil {
			return nil, err
		}

		files = append(files, filepath.Join(dir, filepath.FromSlash(f.Name)))
	}

	return files, nil
}

// extractFile writes the entry next to target and renames it over target, so readers of
// target see either the old or the new content.
func extractFile(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeHostArchiveFailed, "failed to create directory", err)
	}

	src, err := f.Open()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to open archive entry %s", f.Name)
	}
	defer src.Close()

	dst, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to create temporary file for %s", target)
	}

	defer func() {
		if err != nil {
			dst.Close()
			os.Remove(dst.Name())
		}
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to extract %s", f.Name)
	}

	if err = dst.Chmod(0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to chmod %s", dst.Name())
	}

	if err = dst.Close(); err != nil {
		return errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to extract %s", f.Name)
	}

	if err = os.Rename(dst.Name(), target); err != nil {
		return errors.Wrapf(errors.ErrCodeHostArchiveFailed, err, "failed to replace %s", target)
	}

	return nil
}
