package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/subosito/gotenv"
)

// DefaultDotEnv is the file LoadDotEnv reads when called without paths
const DefaultDotEnv = ".env"

// LoadDotEnv loads KEY=VALUE files into the process environment. Variables that are
// already set win over file values, and missing files are skipped. It must run before
// the first logger.Get so LOG_* values from the files take effect, which is why it
// reports the loaded files instead of logging them
func LoadDotEnv(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnv}
	}
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := gotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("config: load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
