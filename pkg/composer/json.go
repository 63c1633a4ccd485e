package composer

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/typo3vite/pkg/errors"
)

// ReadJSONFile decodes the JSON document at path into v.
// A missing file yields ErrCodeFileNotFound, a document that does not decode
// into v yields ErrCodeInvalidJSON.
func ReadJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidJSON, err, "parse %s", path)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
