package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/polyglot/internal/adapter/repository"
	"github.com/eslsoft/polyglot/internal/adapter/tts"
	"github.com/eslsoft/polyglot/internal/infrastructure/config"
	"github.com/eslsoft/polyglot/internal/repository"
	"github.com/eslsoft/polyglot/internal/usecase"
)

// provideStore builds the configured KV store. The memory driver keeps
// everything in-process and exists for tests and dry runs.
func provideStore(cfg *config.Config) (repository.KVStore, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return adapterrepo.NewMemoryStore(), func() {}, nil
	case "sqlite3", "postgres":
		return adapterrepo.NewSQLStore(context.Background(), cfg.Storage.Driver, cfg.Storage.DSN)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func provideWriter(store repository.KVStore, logger *logrus.Logger) (*usecase.Writer, func()) {
	w := usecase.NewWriter(store, logger)
	return w, w.Close
}

func provideEngine(cfg *config.Config, logger *logrus.Logger) (*tts.Engine, func(), error) {
	engine, err := tts.NewEngine(cfg.TTS.Provider, cfg.TTS.Command, logger)
	if err != nil {
		return nil, nil, err
	}
	return engine, engine.Close, nil
}
