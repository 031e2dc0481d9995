// Package mingle wires the stores and core domain packages into the
// services that commands and the TUI consume.
package mingle

import (
	"github.com/colonyops/mingle/internal/core/config"
	"github.com/colonyops/mingle/internal/core/kv"
	"github.com/colonyops/mingle/internal/data/db"
	"github.com/colonyops/mingle/internal/data/stores"
)

// App is the central entry point for all mingle operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Events    *EventService
	Directory *DirectoryService
	Follows   *FollowService

	Config *config.Config
	DB     *db.DB
	KV     kv.KV
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, database *db.DB) *App {
	dirStore := stores.NewDirectoryStore(database)
	eventStore := stores.NewEventStore(database)
	followStore := stores.NewFollowStore(database)
	kvStore := stores.NewKVStore(database)

	directory := NewDirectoryService(dirStore, followStore, kvStore, cfg.Directory.SearchLimit)

	return &App{
		Events:    NewEventService(eventStore, dirStore, directory),
		Directory: directory,
		Follows:   NewFollowService(followStore, dirStore),
		Config:    cfg,
		DB:        database,
		KV:        kvStore,
	}
}
