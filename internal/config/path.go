// Package config loads penance configuration from files, the environment and .env.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/penance-hunter/internal/common"
)

// ExpandPath resolves a leading ~ and $VAR or ${VAR} references in a
// configured path. Referencing an unset variable is a configuration error.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: cannot expand ~ in %q: %w", common.ErrInvalidConfig, path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	var missing []string
	expanded := os.Expand(path, func(name string) string {
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return value
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("%w: %q references unset variable(s) %s",
			common.ErrInvalidConfig, path, strings.Join(missing, ", "))
	}

	return expanded, nil
}
