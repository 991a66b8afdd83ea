package cmd

import (
	"context"
	"fmt"

	"ducker/internal/adapters/storage"
	"ducker/internal/paths"
)

// HistoryCmd shows recent notification playbacks
type HistoryCmd struct {
	Limit int `help:"Maximum number of entries to show" default:"20"`
}

// Run prints the most recent playbacks, newest first
func (h *HistoryCmd) Run(cli *CLI) error {
	repo, err := storage.NewSQLiteRepository(paths.GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer repo.Close()

	records, err := repo.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No playback history.")
		return nil
	}

	for _, r := range records {
		status := "completed"
		switch {
		case r.Interrupted:
			status = "interrupted"
		case !r.Completed:
			status = "aborted"
		}
		fmt.Printf("%s  %-11s  vol=%3d%%  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status, r.Volume, r.SoundPath)
	}
	return nil
}
