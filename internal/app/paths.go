package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	appDirName = "meowtrition"
	dbFileName = "meowtrition.db"
)

// LoadEnv reads a .env file from the working directory when present.
// Missing files are fine; real env vars always win.
func LoadEnv() {
	_ = godotenv.Load()
}

func DefaultDBPath() (string, error) {
	if v := os.Getenv("MEOWTRITION_DB"); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
