package kaggle

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

const credentialsFileName = "kaggle.json"

// Credentials authenticate against the Kaggle API.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

func (c Credentials) valid() bool {
	return c.Username != "" && c.Key != ""
}

// LoadCredentials looks up credentials in KAGGLE_USERNAME and KAGGLE_KEY, then in
// $KAGGLE_CONFIG_DIR/kaggle.json, then in ~/.kaggle/kaggle.json.
func LoadCredentials() (Credentials, error) {
	home, _ := os.UserHomeDir()

	return loadCredentials(os.Getenv, home)
}

func loadCredentials(getenv func(string) string, home string) (Credentials, error) {
	creds := Credentials{Username: getenv("KAGGLE_USERNAME"), Key: getenv("KAGGLE_KEY")}
	if creds.valid() {
		return creds, nil
	}

	var candidates []string
	if dir := getenv("KAGGLE_CONFIG_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, credentialsFileName))
	}

	if home != "" {
		candidates = append(candidates, filepath.Join(home, ".kaggle", credentialsFileName))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}

		if err != nil {
			return Credentials{}, errors.Wrapf(errors.ErrCodeHostAuthMissing, err, "failed to read %s", path)
		}

		var fileCreds Credentials
		if err := json.Unmarshal(data, &fileCreds); err != nil {
			return Credentials{}, errors.Wrapf(errors.ErrCodeHostAuthMissing, err, "invalid credentials file %s", path)
		}

		if fileCreds.valid() {
			return fileCreds, nil
		}
	}

	return Credentials{}, errors.New(errors.ErrCodeHostAuthMissing,
		"kaggle credentials not found: set KAGGLE_USERNAME and KAGGLE_KEY or provide kaggle.json")
}
