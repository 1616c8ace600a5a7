package bwatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeConsole writes an executable shell script standing in for
// bconsole and returns its path.
func writeFakeConsole(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "bconsole")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

type recordPrinter struct {
	mutex sync.Mutex
	lines []string
}

func (p *recordPrinter) Print(v ...interface{}) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.lines = append(p.lines, fmt.Sprint(v...))
}

func (p *recordPrinter) Lines() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]string(nil), p.lines...)
}

func TestConsoleRun(t *testing.T) {
	bin := writeFakeConsole(t, `read cmd
echo "args: $*"
echo "cmd: $cmd"
echo "target: $BWATCH_TARGET"
echo "warning one" >&2
printf "partial" >&2`)

	log := &recordPrinter{}
	metrics := NewMetrics()
	c := &Console{Binary: bin, Config: "/etc/bacula/bconsole.conf", Log: log, Lines: metrics.StatConsoleLines}

	out, err := c.Run(context.Background(), storage1)
	require.NoError(t, err)
	assert.Equal(t, ""+
		"args: -c /etc/bacula/bconsole.conf\n"+
		"cmd: status storage=File1 running\n"+
		"target: storage=File1\n",
		out)

	var stdoutLines, stderrLines []string
	for _, line := range log.Lines() {
		assert.Contains(t, line, "storage=File1")
		if strings.Contains(line, " E] ") {
			stderrLines = append(stderrLines, line)
		} else {
			stdoutLines = append(stdoutLines, line)
		}
	}
	require.Len(t, stderrLines, 2)
	assert.Contains(t, stderrLines[0], "E] warning one")
	assert.Contains(t, stderrLines[1], "E] partial")
	require.Len(t, stdoutLines, 3)
	assert.Contains(t, stdoutLines[1], "I] cmd: status storage=File1 running")

	assert.Equal(t, float64(3), metrics.ConsoleLines(storage1, "stdout"))
	assert.Equal(t, float64(2), metrics.ConsoleLines(storage1, "stderr"))
}

func TestConsoleRunFailure(t *testing.T) {
	bin := writeFakeConsole(t, `echo "Failed to connect to Client web01-fd."
exit 1`)
	c := &Console{Binary: bin, Config: "unused"}

	out, err := c.Run(context.Background(), client1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bconsole client=web01-fd")
	assert.Equal(t, "Failed to connect to Client web01-fd.\n", out)
}

func TestConsoleRunTimeout(t *testing.T) {
	bin := writeFakeConsole(t, "exec sleep 5")
	c := &Console{Binary: bin, Config: "unused"}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	T_START := time.Now()
	_, err := c.Run(ctx, storage1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(T_START), 4*time.Second)
}
