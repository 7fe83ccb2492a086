package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is where the mood database lives unless configured.
	DefaultPath = "~/.moodlog/mood_database.db"
	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"
)

// Config locates the database. The database location is the only setting.
type Config interface {
	DatabasePath() string
}

// LoadConfig resolves the database path from, in order of precedence, the
// MOODLOG_PATH environment variable (a .env file is honoured), a .moodlog
// config file and the default.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("store: load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetConfigName(".moodlog") // .yaml is implicit
	v.SetEnvPrefix("MOODLOG")
	v.AutomaticEnv()

	if override := os.Getenv("MOODLOG_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config file: %w", err)
		}
	}

	path, err := expandPath(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	return &fileConfig{Path: path}, nil
}

// PathConfig is a Config pointing at an explicit database path.
func PathConfig(path string) Config {
	return &fileConfig{Path: path}
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) DatabasePath() string {
	return f.Path
}

func expandPath(path string) (string, error) {
	if path == "" || path == MemoryPath {
		return path, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("store: expand %q: %w", path, err)
	}
	return filepath.Clean(expanded), nil
}
