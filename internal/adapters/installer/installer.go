// Package installer runs the package manager that regenerates the lockfile.
package installer

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultWaitDelay bounds how long Regenerate waits for output pipes after
	// the package manager exits or is killed.
	DefaultWaitDelay = 5 * time.Second

	// outputLimit is the number of trailing output bytes kept per stream.
	outputLimit = 64 << 10
)

var _ ports.Installer = (*Installer)(nil)

// Installer implements ports.Installer using os/exec.
type Installer struct {
	waitDelay time.Duration
}

// New creates an Installer.
func New() *Installer {
	return &Installer{waitDelay: DefaultWaitDelay}
}

// Regenerate runs cmd in dir with stdin closed and the parent environment.
// Stdout and stderr are captured and attached to the returned error.
func (i *Installer) Regenerate(ctx context.Context, dir string, cmd domain.InstallCommand) error {
	if len(cmd.Args) == 0 {
		return domain.ErrEmptyInstallCommand
	}

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	stdout := &tailBuffer{limit: outputLimit}
	stderr := &tailBuffer{limit: outputLimit}

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...) //nolint:gosec // command comes from configuration
	c.Dir = dir
	c.Stdin = nil
	c.Stdout = stdout
	c.Stderr = stderr
	c.WaitDelay = i.waitDelay

	if err := c.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		wrapped := zerr.Wrap(err, domain.ErrRegenerationFailed.Error())
		wrapped = zerr.With(wrapped, "command", cmd.String())
		wrapped = zerr.With(wrapped, "dir", dir)
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			wrapped = zerr.With(wrapped, "timeout", cmd.Timeout.String())
		}
		if out := stderr.String(); out != "" {
			wrapped = zerr.With(wrapped, "stderr", out)
		}
		if out := stdout.String(); out != "" {
			wrapped = zerr.With(wrapped, "stdout", out)
		}
		return wrapped
	}

	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	truncated bool
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
		b.truncated = true
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := strings.TrimRight(string(b.buf), "\n")
	if b.truncated && out != "" {
		return "…" + out
	}
	return out
}
