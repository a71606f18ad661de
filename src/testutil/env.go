package testutil

import (
	"os"
	"path/filepath"

	"github.com/ctfpad/backend/src/utils"
	"github.com/joho/godotenv"
)

// GetEnv reads key from the environment, loading the project .env first so
// tests resolve the same values from any package directory. A missing .env
// is fine when the variable is set directly.
func GetEnv(key string) string {
	_ = godotenv.Load(filepath.Join(utils.FindProjectRoot(), ".env"))
	return os.Getenv(key)
}
