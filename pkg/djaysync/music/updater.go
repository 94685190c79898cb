package music

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/himanishpuri/djaysync/pkg/models"
)

const DefaultTimeout = 30 * time.Second

// skipMessage is reported for updates that carry no values.
const skipMessage = "no djay values"

// Runner executes an AppleScript and returns its trimmed output.
type Runner func(ctx context.Context, script string) (string, error)

// Updater applies planned updates to the Music library.
type Updater struct {
	opts    Options
	timeout time.Duration
	run     Runner
}

// NewUpdater returns an Updater that runs scripts with osascript. A zero
// timeout uses DefaultTimeout.
func NewUpdater(opts Options, timeout time.Duration) *Updater {
	return NewUpdaterWithRunner(opts, timeout, Osascript)
}

func NewUpdaterWithRunner(opts Options, timeout time.Duration, run Runner) *Updater {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Updater{opts: opts, timeout: timeout, run: run}
}

// Apply writes u into Music.app. Failures are reported as an error outcome
// so one bad track does not stop a run.
func (u *Updater) Apply(ctx context.Context, pu models.PlannedUpdate) models.Outcome {
	script, ok := BuildScript(pu, u.opts)
	if !ok {
		return models.Outcome{Kind: models.OutcomeSkipped, Message: skipMessage}
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	out, err := u.run(ctx, script)
	if err != nil {
		return models.Outcome{Kind: models.OutcomeError, Message: err.Error()}
	}
	return ParseOutcome(out)
}

// Osascript runs script with macOS osascript. Stdout is preferred; stderr is
// returned when stdout is empty, matching how AppleScript reports compile
// errors.
func Osascript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return "", fmt.Errorf("osascript: %w", ctx.Err())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		out = strings.TrimSpace(stderr.String())
	}
	if runErr != nil && out == "" {
		return "", fmt.Errorf("running osascript: %w", runErr)
	}
	return out, nil
}
