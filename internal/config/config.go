// Package config holds the operator-facing configuration for the store:
// where documents live, which backend holds them, and the external-access
// policy toggle.
//
// Configuration is loaded exactly once at process start into an immutable
// value that callers pass down explicitly — there is no mutable global and
// no re-reading of the .env file at runtime.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names accepted by STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// validBackends is the set of allowed backend names.
var validBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
}

// ValidateBackend returns an error if the backend name is not recognized.
func ValidateBackend(name string) error {
	if !validBackends[name] {
		return fmt.Errorf("invalid store backend %q: must be one of: file, sqlite", name)
	}
	return nil
}

// Config is the immutable store configuration.
type Config struct {
	// FormsDir and ResponsesDir are the document directories of the file
	// backend.
	FormsDir     string
	ResponsesDir string

	// Backend selects the document backend: BackendFile or BackendSQLite.
	Backend string

	// SQLitePath is the database file of the sqlite backend.
	SQLitePath string

	// ExternalAccess is the operator's policy toggle for reaching the
	// patient-facing side from outside the clinic network.
	ExternalAccess bool
}

// Default returns the configuration used when no .env or environment
// overrides are present.
func Default() Config {
	return Config{
		FormsDir:       "forms",
		ResponsesDir:   "responses",
		Backend:        BackendFile,
		SQLitePath:     "formstore.db",
		ExternalAccess: true,
	}
}

// Load builds a Config from defaults, the .env file at envPath (if one
// exists) and the process environment, in increasing precedence. A missing
// .env file is not an error; an unreadable or malformed one is.
func Load(envPath string) (Config, error) {
	cfg := Default()

	fileVars := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		fileVars, err = godotenv.Read(envPath)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", envPath, err)
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}

	if v := lookup("FORMS_DIR"); v != "" {
		cfg.FormsDir = v
	}
	if v := lookup("RESPONSES_DIR"); v != "" {
		cfg.ResponsesDir = v
	}
	if v := lookup("STORE_BACKEND"); v != "" {
		if err := ValidateBackend(v); err != nil {
			return Config{}, err
		}
		cfg.Backend = v
	}
	if v := lookup("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := lookup("EXTERNAL_ACCESS_RULE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing EXTERNAL_ACCESS_RULE: %w", err)
		}
		cfg.ExternalAccess = b
	}

	return cfg, nil
}
