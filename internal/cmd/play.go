package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	"ducker/internal/adapters/process"
	"ducker/internal/config"
	"ducker/internal/detach"
	"ducker/internal/domain"
	"ducker/internal/lock"
	"ducker/internal/logging"
	"ducker/internal/paths"
	"ducker/internal/server"
)

// PlayCmd plays a notification sound while ducking other audio
type PlayCmd struct {
	Sound   string  `arg:"" optional:"" help:"Sound alias from config or path to audio file"`
	FadeOut float64 `help:"Fade out duration in seconds" short:"f" env:"DUCKER_FADE_OUT" default:"0.3"`
	FadeIn  float64 `help:"Fade in duration in seconds" short:"i" env:"DUCKER_FADE_IN" default:"0.3"`
	Volume  int     `help:"Output volume percentage for the notification (0-100)" short:"v" env:"DUCKER_VOLUME" default:"75"`
	Detach  bool    `help:"Detach process and run in background" short:"d" env:"DUCKER_DETACH"`
}

// Run executes the play command: resolve the sound, acquire or enqueue,
// and if leader, run the notification server until the queue drains
func (p *PlayCmd) Run(cli *CLI) error {
	if p.Sound == "" {
		fmt.Fprintln(os.Stderr, "Error: No sound specified.")
		fmt.Fprintln(os.Stderr, "Usage: ducker [flags] <sound>")
		fmt.Fprintln(os.Stderr, "Try 'ducker --help' for more information.")
		return domain.ErrNoSound
	}

	p.applyConfig(cli.cfg)

	// Resolve before touching the lock or the audio subsystem, so bad
	// input never leaves partial state behind
	soundPath := cli.cfg.ResolveSound(p.Sound)
	if _, err := os.Stat(soundPath); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrSoundNotFound, soundPath)
	}

	if p.Detach && !detach.IsChild() {
		return detach.Spawn()
	}

	// A termination signal unwinds through the server's cleanup path
	// instead of killing the process outright
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	lockFile := lock.NewFile(paths.GetLockPath())
	coordinator := lock.NewCoordinator(lockFile, process.NewInspector())

	outcome, err := coordinator.AcquireOrEnqueue(soundPath)
	if err != nil {
		return err
	}
	if outcome == lock.Enqueued {
		fmt.Fprintln(os.Stderr, "Notification request sent to running instance.")
		return nil
	}

	container := NewContainer()
	defer container.Close()

	srv := server.New(container.Audio, lockFile, container.History, server.Config{
		FadeOut:      secondsToDuration(p.FadeOut),
		FadeIn:       secondsToDuration(p.FadeIn),
		Volume:       p.Volume,
		PollInterval: time.Duration(cli.cfg.PollInterval()) * time.Millisecond,
	})

	return srv.Run(ctx, domain.Request{
		SoundPath: soundPath,
		FadeOut:   secondsToDuration(p.FadeOut),
		FadeIn:    secondsToDuration(p.FadeIn),
		Volume:    p.Volume,
	})
}

// applyConfig fills in config-file values with proper precedence:
// CLI flags > env vars > config file > defaults. A config value applies
// only when the flag is still at its default and the env var is unset
// (kong already resolved flag-vs-env).
func (p *PlayCmd) applyConfig(cfg *config.Config) {
	if p.FadeOut == config.DefaultFadeOutSeconds {
		if _, hasEnv := os.LookupEnv("DUCKER_FADE_OUT"); !hasEnv && cfg.FadeOut != nil {
			p.FadeOut = *cfg.FadeOut
		}
	}
	if p.FadeIn == config.DefaultFadeInSeconds {
		if _, hasEnv := os.LookupEnv("DUCKER_FADE_IN"); !hasEnv && cfg.FadeIn != nil {
			p.FadeIn = *cfg.FadeIn
		}
	}
	if p.Volume == config.DefaultVolume {
		if _, hasEnv := os.LookupEnv("DUCKER_VOLUME"); !hasEnv && cfg.Volume != nil {
			p.Volume = *cfg.Volume
		}
	}

	// Clamp to a sane percentage
	if p.Volume < 0 {
		p.Volume = 0
	}
	if p.Volume > 100 {
		p.Volume = 100
	}
	if p.FadeOut < 0 {
		p.FadeOut = 0
	}
	if p.FadeIn < 0 {
		p.FadeIn = 0
	}

	logging.Logger.Debug("Resolved playback parameters",
		"fade_out", p.FadeOut, "fade_in", p.FadeIn, "volume", p.Volume)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
