package cmd

import (
	"ducker/internal/adapters/pulse"
	"ducker/internal/adapters/storage"
	"ducker/internal/logging"
	"ducker/internal/paths"
	"ducker/internal/ports"
)

// Container holds all dependencies for the application
type Container struct {
	Audio   ports.AudioController
	History ports.HistoryRepository // nil when the database is unavailable
}

// NewContainer creates a new Container with all dependencies wired.
// History is best-effort: playback never depends on it.
func NewContainer() *Container {
	c := &Container{
		Audio: pulse.NewController(),
	}

	repo, err := storage.NewSQLiteRepository(paths.GetDBPath())
	if err != nil {
		logging.Logger.Warn("Playback history unavailable", "error", err)
	} else {
		c.History = repo
	}

	return c
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.History != nil {
		return c.History.Close()
	}
	return nil
}
