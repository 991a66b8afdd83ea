package pulse

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"ducker/internal/domain"
	"ducker/internal/logging"
	"ducker/internal/ports"
)

// Controller implements ports.AudioController by shelling out to the
// PulseAudio command-line tools (pactl, paplay, pkill).
type Controller struct{}

// Compile-time interface verification
var _ ports.AudioController = (*Controller)(nil)

// NewController creates a new PulseAudio controller
func NewController() *Controller {
	return &Controller{}
}

// Snapshot captures the default sink, its volume and the unmuted streams.
// The sink query and the stream query run concurrently.
func (c *Controller) Snapshot(ctx context.Context) (domain.AudioSnapshot, error) {
	var snap domain.AudioSnapshot

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		infoOut, err := runCtx(ctx, "pactl", "info")
		if err != nil {
			return err
		}
		sink, err := parseDefaultSink(infoOut)
		if err != nil {
			return err
		}

		sinksOut, err := runCtx(ctx, "pactl", "list", "sinks")
		if err != nil {
			return err
		}
		volume, err := parseSinkVolume(sinksOut, sink)
		if err != nil {
			return err
		}

		snap.DefaultSink = sink
		snap.Volume = volume
		return nil
	})

	g.Go(func() error {
		shortOut, err := runCtx(ctx, "pactl", "list", "short", "sink-inputs")
		if err != nil {
			return err
		}
		ids := parseSinkInputIDs(shortOut)
		if len(ids) == 0 {
			return nil
		}

		detailOut, err := runCtx(ctx, "pactl", "list", "sink-inputs")
		if err != nil {
			return err
		}
		snap.UnmutedInputs = filterUnmuted(detailOut, ids)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.AudioSnapshot{}, err
	}

	logging.Logger.Debug("Captured audio snapshot",
		"sink", snap.DefaultSink,
		"volume", snap.Volume,
		"unmuted_inputs", len(snap.UnmutedInputs))

	return snap, nil
}

// SetSinkVolume sets the sink volume to the given percentage
func (c *Controller) SetSinkVolume(sink string, percent int) error {
	_, err := run("pactl", "set-sink-volume", sink, fmt.Sprintf("%d%%", percent))
	return err
}

// SetInputMute mutes or unmutes a single stream
func (c *Controller) SetInputMute(input string, muted bool) error {
	flag := "0"
	if muted {
		flag = "1"
	}
	_, err := run("pactl", "set-sink-input-mute", input, flag)
	return err
}

// Play plays the file with paplay until it finishes or is terminated
func (c *Controller) Play(ctx context.Context, path string) error {
	_, err := runCtx(ctx, "paplay", path)
	return err
}

// StopPlayback kills an in-flight paplay of the given file
func (c *Controller) StopPlayback(path string) error {
	_, err := run("pkill", "-f", fmt.Sprintf("paplay.*%s", path))
	return err
}

// run executes a command and returns its trimmed stdout. A non-zero exit
// surfaces the command line and captured stderr.
func run(name string, args ...string) (string, error) {
	return runCtx(context.Background(), name, args...)
}

func runCtx(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &domain.CommandError{
			Command: name + " " + strings.Join(args, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}
