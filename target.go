package bwatch

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindStorage Kind = iota
	KindClient
)

func (k Kind) String() string {
	if k == KindClient {
		return "Client"
	}
	return "Storage"
}

// Keyword is the resource keyword bconsole expects in "status <keyword>=".
func (k Kind) Keyword() string {
	return strings.ToLower(k.String())
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.Keyword()), nil
}

// Target is a storage or client daemon whose running jobs are polled.
type Target struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

func (t Target) String() string {
	return t.Kind.Keyword() + "=" + t.Name
}

// Command is the script piped into bconsole for this target.
func (t Target) Command() string {
	return fmt.Sprintf("status %s running\nquit\n", t.String())
}

// Targets builds the poll list: storages first, then clients.
func Targets(storages []string, clients []string) []Target {
	targets := []Target{}
	targets = appendTargets(targets, KindStorage, storages)
	targets = appendTargets(targets, KindClient, clients)
	return targets
}

func appendTargets(targets []Target, kind Kind, names []string) []Target {
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		targets = append(targets, Target{Kind: kind, Name: name})
	}
	return targets
}
