package bwatch

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options are the display toggles applied while cleaning and rendering.
type Options struct {
	ShowVersion   bool `json:"daemon_ver"`
	ShowName      bool `json:"daemon_name"`
	ShowSpool     bool `json:"spool_lines"`
	StripJobNames bool `json:"strip_jobname"`
	ShowCloud     bool `json:"cloud"`
}

func DefaultOptions() Options {
	return Options{
		ShowVersion: true,
		ShowName:    true,
		ShowSpool:   true,
		ShowCloud:   true,
	}
}

// YesNo is a boolean toggle spelled yes/no on the command line and in
// the defaults file. It satisfies pflag.Value and yaml.Unmarshaler.
type YesNo bool

func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "on", "1":
		return true, nil
	case "no", "n", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid yes/no value: %q", s)
}

func (y *YesNo) Set(s string) error {
	v, err := ParseYesNo(s)
	if err != nil {
		return err
	}
	*y = YesNo(v)
	return nil
}

func (y *YesNo) String() string {
	if y != nil && *y {
		return "yes"
	}
	return "no"
}

func (y *YesNo) Type() string {
	return "yes|no"
}

func (y *YesNo) UnmarshalYAML(value *yaml.Node) error {
	return y.Set(value.Value)
}
