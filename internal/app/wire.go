//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/infrastructure/config"
	"github.com/eslsoft/polyglot/internal/infrastructure/logging"
	"github.com/eslsoft/polyglot/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	logging.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
)

var storageSet = wire.NewSet(
	provideStore,
	provideWriter,
)

var speechSet = wire.NewSet(
	provideEngine,
)

var usecaseSet = wire.NewSet(
	usecase.NewWordsUsecase,
	usecase.NewQueueUsecase,
	usecase.NewSettingsUsecase,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		storageSet,
		speechSet,
		usecaseSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
