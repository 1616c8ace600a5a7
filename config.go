package bwatch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBconsole = "/opt/bacula/bin/bconsole"
	DefaultConfig   = "/opt/bacula/etc/bconsole.conf"
	DefaultTimeout  = 30 * time.Second
)

// Settings is everything one invocation needs to poll and print.
type Settings struct {
	Bconsole string
	Config   string
	Storages []string
	Clients  []string
	Timeout  time.Duration
	Options  Options
}

func DefaultSettings() Settings {
	return Settings{
		Bconsole: DefaultBconsole,
		Config:   DefaultConfig,
		Timeout:  DefaultTimeout,
		Options:  DefaultOptions(),
	}
}

// FileConfig is the YAML defaults file. Unset keys keep the built-in
// defaults; command line flags override both.
type FileConfig struct {
	Bconsole     string   `yaml:"bconsole"`
	Config       string   `yaml:"config"`
	Storages     []string `yaml:"storages"`
	Clients      []string `yaml:"clients"`
	DaemonVer    *YesNo   `yaml:"daemon_ver"`
	DaemonName   *YesNo   `yaml:"daemon_name"`
	SpoolLines   *YesNo   `yaml:"spool_lines"`
	StripJobname *YesNo   `yaml:"strip_jobname"`
	Cloud        *YesNo   `yaml:"cloud"`
	Timeout      string   `yaml:"timeout"`
}

func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc := &FileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if fc.Timeout != "" {
		if _, err := time.ParseDuration(fc.Timeout); err != nil {
			return nil, &OptionError{Option: "timeout", Value: fc.Timeout, Err: err}
		}
	}
	return fc, nil
}

func (s *Settings) ApplyFile(fc *FileConfig) {
	if fc.Bconsole != "" {
		s.Bconsole = fc.Bconsole
	}
	if fc.Config != "" {
		s.Config = fc.Config
	}
	if len(fc.Storages) > 0 {
		s.Storages = fc.Storages
	}
	if len(fc.Clients) > 0 {
		s.Clients = fc.Clients
	}
	if fc.Timeout != "" {
		// validated by LoadFile
		s.Timeout, _ = time.ParseDuration(fc.Timeout)
	}
	applyYesNo(&s.Options.ShowVersion, fc.DaemonVer)
	applyYesNo(&s.Options.ShowName, fc.DaemonName)
	applyYesNo(&s.Options.ShowSpool, fc.SpoolLines)
	applyYesNo(&s.Options.StripJobNames, fc.StripJobname)
	applyYesNo(&s.Options.ShowCloud, fc.Cloud)
}

func applyYesNo(dst *bool, v *YesNo) {
	if v != nil {
		*dst = bool(*v)
	}
}

func (s *Settings) Targets() []Target {
	return Targets(s.Storages, s.Clients)
}

// Validate checks the target list, then the bconsole binary, then its
// config file, stopping at the first problem.
func (s *Settings) Validate() error {
	if len(s.Targets()) == 0 {
		return ErrNoTargets
	}
	if s.Timeout <= 0 {
		return &OptionError{
			Option: "timeout",
			Value:  s.Timeout.String(),
			Err:    fmt.Errorf("must be positive"),
		}
	}
	c := &Console{Binary: s.Bconsole, Config: s.Config}
	return c.Check()
}
