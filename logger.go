package bwatch

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Printer is the sink for log lines. glog.Default satisfies it.
type Printer interface {
	Print(v ...interface{})
}

// ConsoleLogger is an io.Writer that forwards a bconsole stream line by
// line to a Printer, tagging each line with the target it belongs to.
type ConsoleLogger struct {
	PrevPrint     time.Time `json:"prev_print"`
	Target        Target    `json:"target"`
	IsErrorStream bool      `json:"err"`
	NumLines      int       `json:"num_lines"`

	out     Printer
	lines   *prometheus.CounterVec
	partial []byte
	mutex   sync.Mutex
}

func NewConsoleLogger(t Target, isErrorStream bool, out Printer, lines *prometheus.CounterVec) *ConsoleLogger {
	return &ConsoleLogger{
		PrevPrint:     time.Now(),
		Target:        t,
		IsErrorStream: isErrorStream,
		out:           out,
		lines:         lines,
	}
}

func (l *ConsoleLogger) Write(p []byte) (int, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	buf := bytes.NewBuffer(append(l.partial, p...))
	l.partial = nil
	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// keep the unterminated tail for the next write
			l.partial = line
			break
		}
		l.emit(string(line))
	}
	return len(p), nil
}

// Flush emits a trailing line that was never newline terminated.
func (l *ConsoleLogger) Flush() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if len(l.partial) > 0 {
		l.emit(string(l.partial))
		l.partial = nil
	}
}

func (l *ConsoleLogger) emit(s string) {
	s = strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return
	}

	e := "I"
	stream := "stdout"
	if l.IsErrorStream {
		e = "E"
		stream = "stderr"
	}
	now := time.Now()
	dt := now.Sub(l.PrevPrint)
	l.PrevPrint = now
	l.NumLines++

	if l.out != nil {
		l.out.Print(fmt.Sprintf("[%-24s %5dms %s] %s",
			l.Target.String(),
			dt.Milliseconds(),
			e,
			s))
	}
	if l.lines != nil {
		l.lines.WithLabelValues(l.Target.Kind.Keyword(), l.Target.Name, stream).Inc()
	}
}
