package config

import (
	"os"
	"path/filepath"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the current or parent directory
// into the process environment. Variables already set are not overridden. It
// returns the file loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) (string, error) {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", err
		}
		if logger != nil {
			logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
		}
		return envFile, nil
	}
	return "", nil
}
