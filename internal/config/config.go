package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tracker"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tracker.db"
	DefaultLogName        = "tracker.log"
	DefaultStorageKey     = "stack_tracker_v2"
	EnvConfigPath         = "TRACKER_CONFIG"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Toggle          string `toml:"toggle"`
	Archive         string `toml:"archive"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
	NextCategory    string `toml:"next_category"`
	CycleFilter     string `toml:"cycle_filter"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
}

type Config struct {
	DBPath     string   `toml:"db_path"`
	LogPath    string   `toml:"log_path"`
	LogLevel   string   `toml:"log_level"`
	StorageKey string   `toml:"storage_key"`
	Categories []string `toml:"categories"`
	Keys       Keymap   `toml:"keys"`
}

// ResolveConfigPath picks $TRACKER_CONFIG, then the user config dir,
// then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing defaults first if the
// file does not exist. Relative db and log paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultConfig().Categories
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(base string) Config {
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(base, c.LogPath)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:     DefaultDBName,
		LogPath:    DefaultLogName,
		LogLevel:   "info",
		StorageKey: DefaultStorageKey,
		Categories: []string{"General", "Frontend", "Backend", "Database", "DevOps"},
		Keys: Keymap{
			Quit:            "q",
			Add:             "a",
			Up:              "k",
			Down:            "j",
			Toggle:          " ",
			Archive:         "d",
			Confirm:         "enter",
			Cancel:          "esc",
			NextCategory:    "tab",
			CycleFilter:     "f",
			FilterAll:       "1",
			FilterActive:    "2",
			FilterCompleted: "3",
		},
	}
}
