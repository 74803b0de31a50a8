package main

import (
	"fmt"

	"mnemo/internal/config"
	"mnemo/internal/store"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// openStore loads the configured database and returns the store together with
// the loaded config and a close function for the underlying persister.
func openStore() (*store.Store, *config.Config, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	persister, err := store.OpenSQLite(cfg.Storage.DatabaseFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store.OpenSQLite() > %w", err)
	}

	s := store.New(persister)
	if err := s.Load(); err != nil {
		_ = persister.Close()
		return nil, nil, nil, fmt.Errorf("store.Load() > %w", err)
	}
	return s, cfg, persister.Close, nil
}
