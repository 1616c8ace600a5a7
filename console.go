package bwatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Runner fetches the raw "status ... running" output for one target.
type Runner interface {
	Run(ctx context.Context, t Target) (string, error)
}

// Console runs the bconsole binary as a subprocess.
type Console struct {
	Binary string
	Config string

	// Log receives bconsole's stdout (I) and stderr (E), one line per
	// Print. May be nil.
	Log Printer
	// Lines counts the lines per target and stream. May be nil.
	Lines *prometheus.CounterVec
}

// Check verifies the binary is executable and the config is readable.
func (c *Console) Check() error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return &OptionError{
			Option: "bconsole",
			Value:  c.Binary,
			Err:    fmt.Errorf("%w: %v", ErrNotExecutable, err),
		}
	}

	f, err := os.Open(c.Config)
	if err == nil {
		var fi os.FileInfo
		fi, err = f.Stat()
		f.Close()
		if err == nil && fi.IsDir() {
			err = fmt.Errorf("%s is a directory", c.Config)
		}
	}
	if err != nil {
		return &OptionError{
			Option: "config",
			Value:  c.Config,
			Err:    fmt.Errorf("%w: %v", ErrNotReadable, err),
		}
	}
	return nil
}

func (c *Console) Run(ctx context.Context, t Target) (string, error) {
	var stdout bytes.Buffer
	stdoutLog := NewConsoleLogger(t, false, c.Log, c.Lines)
	stderr := NewConsoleLogger(t, true, c.Log, c.Lines)

	cmd := exec.CommandContext(ctx, c.Binary, "-c", c.Config)
	cmd.Stdin = strings.NewReader(t.Command())
	cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
	cmd.Stderr = stderr
	cmd.WaitDelay = 2 * time.Second
	cmd.Env = append(
		os.Environ(),
		fmt.Sprintf("BWATCH_TARGET=%s", t.String()),
	)

	err := cmd.Run()
	stdoutLog.Flush()
	stderr.Flush()

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	if err != nil {
		return stdout.String(), fmt.Errorf("bconsole %s: %w", t.String(), err)
	}
	return stdout.String(), nil
}
