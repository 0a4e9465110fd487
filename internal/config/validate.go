package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/kaggle"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if _, err := kaggle.ParseDatasetID(c.Dataset.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "dataset.id", err)
	}

	if _, err := marketdata.ParseTimespan(c.Market.Interval); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "market.interval", err)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}
