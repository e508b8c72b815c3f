package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// EnvPathVar names the variable that overrides the .env location.
const EnvPathVar = "ENV_PATH"

// LoadDotEnv loads variables from a .env file without overriding ones already
// set in the process environment. ENV_PATH takes precedence over path. A
// missing file is only an error when required is true.
func LoadDotEnv(path string, required bool) error {
	envPath := path
	if p := os.Getenv(EnvPathVar); p != "" {
		envPath = p
	} else {
		slog.Debug("ENV_PATH is not set, using path", "path", path)
	}

	err := godotenv.Load(envPath)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Skipping .env ...", "path", envPath)
			return nil
		}
		return err
	}

	slog.Debug("Loaded .env", "path", envPath)
	return nil
}
