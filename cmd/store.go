package cmd

import (
	"os"
	"time"

	"github.com/parcelwatch/parcelwatch/pkg/config"
	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/model"
	"github.com/parcelwatch/parcelwatch/pkg/store"
)

// Test seams; commands call through these so tests can substitute
// deterministic implementations.
var (
	loadConfigFunc = config.Load
	nowFunc        = time.Now
)

// loadConfig loads the configuration honoring the --config flag.
//
// Returns:
//   - *config.Config: Loaded configuration
//   - error: *errors.ExitError with ExitConfigError on failure
func loadConfig() (*config.Config, error) {
	cfg, err := loadConfigFunc(configFlag)
	if err != nil {
		return nil, errors.NewExitError(errors.ExitConfigError, err)
	}
	return cfg, nil
}

// resolveStorePath determines the datastore location. Precedence:
// --datastore flag, then the PARCELWATCH_STORE environment variable, then
// the config file's store entry, then the per-user default.
//
// Parameters:
//   - cfg: Loaded configuration
//
// Returns:
//   - string: Resolved datastore path
//   - error: *errors.ExitError when no location can be resolved
func resolveStorePath(cfg *config.Config) (string, error) {
	if datastoreFlag != "" {
		return datastoreFlag, nil
	}
	if env := os.Getenv(store.EnvStorePath); env != "" {
		return env, nil
	}
	if cfg.Store != "" {
		return cfg.Store, nil
	}
	path, err := store.DefaultPath()
	if err != nil {
		return "", errors.NewExitError(errors.ExitConfigError, err)
	}
	return path, nil
}

// loadCollection resolves the datastore path and loads the collection.
//
// Datastore failures are fatal to the invocation and mapped to
// ExitFailure.
//
// Returns:
//   - *config.Config: Loaded configuration
//   - string: Resolved datastore path
//   - []*model.Package: Loaded collection
//   - error: *errors.ExitError on config or datastore failure
func loadCollection() (*config.Config, string, []*model.Package, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", nil, err
	}
	path, err := resolveStorePath(cfg)
	if err != nil {
		return nil, "", nil, err
	}
	pkgs, err := store.Load(path)
	if err != nil {
		return nil, "", nil, errors.NewExitError(errors.ExitFailure, err)
	}
	return cfg, path, pkgs, nil
}

// saveCollection persists the collection, mapping datastore failures to
// ExitFailure.
//
// Parameters:
//   - path: Datastore path
//   - pkgs: Collection to persist
//
// Returns:
//   - error: *errors.ExitError on datastore failure
func saveCollection(path string, pkgs []*model.Package) error {
	if err := store.Save(path, pkgs); err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}
	return nil
}
