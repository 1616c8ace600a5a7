package bwatch

import (
	"regexp"
	"strings"
	"time"
)

const NotAvailable = "N/A"

var (
	runningJobsRegex = regexp.MustCompile(`(?ms)Running Jobs:\n(.*?)^====`)
	cloudStatusRegex = regexp.MustCompile(`(?ms)Cloud transfer status:\n(.*?)^====`)
	directorRegex    = regexp.MustCompile(`^\d{4} OK:`)
	versionRegex     = regexp.MustCompile(`^(?:.*\s)?(\S+) Version: (\d+\.\d+\.\d+)(?:\s|$)`)

	// lines removed from every running jobs section, in order
	removeRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^Connecting to Director.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^Director connected.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^ +FDReadSeqNo.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^ +FDSocket.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^No Jobs running\..*(?:\n|$)`),
		regexp.MustCompile(`(?m)^ +SDReadSeqNo=.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^ +SDSocket.*(?:\n|$)`),
	}

	// director chatter that only shows up when the section is missing
	preambleRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\d{4} OK:.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^Enter a period to cancel a command\..*(?:\n|$)`),
		regexp.MustCompile(`(?m)^You have messages\..*(?:\n|$)`),
		regexp.MustCompile(`(?m)^status (?:storage|client)=.*(?:\n|$)`),
		regexp.MustCompile(`(?m)^quit\s*(?:\n|$)`),
		regexp.MustCompile(`(?m)^====.*(?:\n|$)`),
	}

	spoolRegex    = regexp.MustCompile(`(?m)^ +spooling=.*(?:\n|$)`)
	jobNameRegex  = regexp.MustCompile(`\.\d{4}-\d{2}-\d{2}_\d{2}\.\d{2}\.\d{2}_\d+\b`)
	jobStartRegex = regexp.MustCompile(`(?m)^(?:JobId |Writing: |Reading: )`)
	jobSplitRegex = regexp.MustCompile(`(JobId |Writing: |Reading: )`)
)

// Status is the cleaned running job snapshot of one target.
type Status struct {
	Target         Target        `json:"target"`
	Daemon         string        `json:"daemon"`
	Version        string        `json:"version"`
	Jobs           string        `json:"jobs"`
	JobCount       int           `json:"job_count"`
	Cloud          string        `json:"cloud,omitempty"`
	SectionMissing bool          `json:"section_missing,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
	Error          string        `json:"error,omitempty"`

	Err error `json:"-"`
}

// DaemonVersion returns the name and version of the last daemon that
// announced itself in the output. The director's "1000 OK:" banner is
// ignored so an unreachable daemon reports N/A.
func DaemonVersion(output string) (daemon string, version string) {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if directorRegex.MatchString(lines[i]) {
			continue
		}
		m := versionRegex.FindStringSubmatch(lines[i])
		if m != nil {
			return m[1], m[2]
		}
	}
	return NotAvailable, NotAvailable
}

// RunningJobs returns the body of the "Running Jobs:" section.
func RunningJobs(output string) (string, bool) {
	m := runningJobsRegex.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CloudStatus returns the body of the "Cloud transfer status:" section.
func CloudStatus(output string) string {
	m := cloudStatusRegex.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func removeAll(s string, regexes []*regexp.Regexp) string {
	for _, r := range regexes {
		s = r.ReplaceAllString(s, "")
	}
	return s
}

// CleanJobs applies the removal list and display toggles to a running
// jobs section and separates the jobs with blank lines. It returns the
// cleaned text and the number of jobs found.
func CleanJobs(section string, opts Options) (string, int) {
	s := removeAll(section, removeRegexes)
	if !opts.ShowSpool {
		s = spoolRegex.ReplaceAllString(s, "")
	}
	if opts.StripJobNames {
		s = jobNameRegex.ReplaceAllString(s, "")
	}
	count := len(jobStartRegex.FindAllStringIndex(s, -1))
	s = jobSplitRegex.ReplaceAllString(s, "\n${1}")
	return strings.TrimRight(s, " \t\r\n"), count
}

// Parse turns raw bconsole output into a Status for t.
func Parse(t Target, output string, opts Options) *Status {
	st := &Status{
		Target:  t,
		Daemon:  NotAvailable,
		Version: NotAvailable,
	}
	if opts.ShowVersion || opts.ShowName {
		st.Daemon, st.Version = DaemonVersion(output)
	}

	section, ok := RunningJobs(output)
	if !ok {
		st.SectionMissing = true
		section = strings.TrimSpace(removeAll(output, preambleRegexes))
	}
	st.Jobs, st.JobCount = CleanJobs(section, opts)

	if opts.ShowCloud && t.Kind == KindStorage {
		st.Cloud = CloudStatus(output)
	}
	return st
}

// SetError records a failed bconsole run on the status.
func (s *Status) SetError(err error) {
	s.Err = err
	if err != nil {
		s.Error = err.Error()
	}
}
