// Package app assembles the application object graph.
package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/adapter/tts"
	"github.com/eslsoft/polyglot/internal/infrastructure/config"
	"github.com/eslsoft/polyglot/internal/repository"
	"github.com/eslsoft/polyglot/internal/usecase"
)

// Container holds every constructed component the commands need.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Store    repository.KVStore
	Writer   *usecase.Writer
	Engine   *tts.Engine
	Words    usecase.WordsUsecase
	Queue    usecase.QueueUsecase
	Settings usecase.SettingsUsecase
}
