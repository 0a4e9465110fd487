package kaggle

import (
	"strings"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// DatasetID identifies a dataset as owner/slug.
type DatasetID struct {
	Owner string
	Slug  string
}

// ParseDatasetID parses "owner/slug".
func ParseDatasetID(s string) (DatasetID, error) {
	owner, slug, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || slug == "" || strings.Contains(slug, "/") {
		return DatasetID{}, errors.Newf(errors.ErrCodeInvalidDatasetID, "invalid dataset id %q, expected owner/slug", s)
	}

	return DatasetID{Owner: owner, Slug: slug}, nil
}

func (d DatasetID) String() string {
	return d.Owner + "/" + d.Slug
}

func (d DatasetID) pathParams() map[string]string {
	return map[string]string{"owner": d.Owner, "slug": d.Slug}
}
