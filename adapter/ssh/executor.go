package ssh

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/errs"
	"github.com/pkg/errors"
)

const (
	defaultBinary = "ssh"
	// output pipes are abandoned this long after the process is killed
	waitDelay = time.Second
)

// ExecutorParams configures an Executor. Binary defaults to "ssh" resolved on PATH.
type ExecutorParams struct {
	Binary  string
	Timeout time.Duration
}

func NewExecutor(params ExecutorParams) *Executor {
	if params.Binary == "" {
		params.Binary = defaultBinary
	}
	if params.Timeout <= 0 {
		params.Timeout = config.DefaultSSHTimeout
	}
	return &Executor{binary: params.Binary, timeout: params.Timeout}
}

// Executor runs commands through the local ssh client, so host aliases,
// agents and keys from the user's ssh config apply.
type Executor struct {
	binary  string
	timeout time.Duration
}

var _ domain.RemoteExecutor = (*Executor)(nil)

// Run executes command on host. A non-zero exit status is reported in the
// result together with a non-nil error; a missing ssh binary returns
// errs.ErrToolNotFound.
func (e *Executor) Run(ctx context.Context, host string, command string) (domain.CommandResult, error) {
	result := domain.CommandResult{Host: host, ExitCode: -1}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, host, command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result.Stdout = strings.TrimSpace(stdout.String())
	result.Stderr = strings.TrimSpace(stderr.String())
	if err == nil {
		result.ExitCode = 0
		return result, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return result, errs.ErrToolNotFound
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("command on %s timed out after %s: %w", host, e.timeout, ctxErr)
		}
		return result, fmt.Errorf("command on %s interrupted: %w", host, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("command on %s exited with status %d: %s", host, result.ExitCode, result.Output())
	}
	return result, errors.WithMessagef(err, "run command on %s", host)
}
