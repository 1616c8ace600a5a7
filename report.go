package bwatch

import (
	"strings"
	"unicode/utf8"
)

// Header is the one line title of a target's block, e.g.
// "Storage: File1 (bacula-sd v13.0.3) - No Jobs Running".
func (s *Status) Header(opts Options) string {
	var b strings.Builder
	b.WriteString(s.Target.Kind.String())
	b.WriteString(": ")
	b.WriteString(s.Target.Name)

	if opts.ShowName || opts.ShowVersion {
		b.WriteString(" (")
		if opts.ShowName {
			b.WriteString(s.Daemon)
		}
		if opts.ShowName && opts.ShowVersion {
			b.WriteString(" ")
		}
		if opts.ShowVersion {
			b.WriteString("v")
			b.WriteString(s.Version)
		}
		b.WriteString(")")
	}

	switch {
	case s.Err != nil:
		b.WriteString(" - Error")
	case s.Jobs == "":
		b.WriteString(" - No Jobs Running")
	}
	return b.String()
}

// Banner is the header framed by two rules of '=' of the same width.
func (s *Status) Banner(opts Options) string {
	header := s.Header(opts)
	line := strings.Repeat("=", utf8.RuneCountInString(header))
	return line + "\n" + header + "\n" + line
}

// Body is everything printed under the banner. Jobs and the bconsole
// error start on the line right after the rule; separated jobs already
// carry that newline.
func (s *Status) Body(opts Options) string {
	var b strings.Builder
	if s.Jobs != "" {
		if !strings.HasPrefix(s.Jobs, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(s.Jobs)
	}
	if s.Err != nil {
		if s.Jobs != "" {
			b.WriteString("\n")
		}
		b.WriteString("\nbconsole: ")
		b.WriteString(s.Err.Error())
	}
	if opts.ShowCloud && s.Cloud != "" {
		b.WriteString("\n\nCloud transfer status:\n")
		b.WriteString(s.Cloud)
	}
	return b.String()
}

func (s *Status) Render(opts Options) string {
	return s.Banner(opts) + s.Body(opts) + "\n"
}

// Render prints every status in poll order.
func Render(statuses []*Status, opts Options) string {
	var b strings.Builder
	for _, s := range statuses {
		b.WriteString(s.Render(opts))
	}
	return b.String()
}
