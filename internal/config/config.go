// Package config reads runtime settings from the environment.
//
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the local draft.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	APIURL         string        // backend resume resource, e.g. http://host/api/resumes
	Token          string        // bearer token; may be supplied later through the local API
	Storage        string        // StorageSQLite or StorageMemory
	DBPath         string        // sqlite file when Storage is StorageSQLite
	Port           int           // local API port
	AutosaveDelay  time.Duration // pause after the last edit before the draft is written
	LoadingCeiling time.Duration // longest time the loading flag stays raised
	UploadURL      string        // image host endpoint; empty disables photo upload
	UploadPreset   string
	AllowedOrigins []string // CORS origins of the browser editor
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		APIURL:         "http://localhost:8000/api/resumes",
		Storage:        StorageSQLite,
		DBPath:         "data/newcv.db",
		Port:           8080,
		AutosaveDelay:  time.Second,
		LoadingCeiling: 8 * time.Second,
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
	}
}

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, starting from Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("NEWCV_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	cfg.Token = strings.TrimSpace(getenv("NEWCV_TOKEN"))

	if v := getenv("NEWCV_STORAGE"); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != StorageSQLite && v != StorageMemory {
			return Config{}, fmt.Errorf("config: NEWCV_STORAGE must be %q or %q, got %q", StorageSQLite, StorageMemory, v)
		}
		cfg.Storage = v
	}
	if v := getenv("NEWCV_DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid PORT %q", v)
		}
		cfg.Port = port
	}

	var err error
	if cfg.AutosaveDelay, err = duration(getenv, "NEWCV_AUTOSAVE_DELAY", cfg.AutosaveDelay); err != nil {
		return Config{}, err
	}
	if cfg.LoadingCeiling, err = duration(getenv, "NEWCV_LOADING_CEILING", cfg.LoadingCeiling); err != nil {
		return Config{}, err
	}

	cfg.UploadURL = getenv("NEWCV_UPLOAD_URL")
	cfg.UploadPreset = getenv("NEWCV_UPLOAD_PRESET")

	if v := getenv("NEWCV_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid %s %q", key, v)
	}
	return d, nil
}
