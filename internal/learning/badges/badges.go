// Package badges derives earned badges from a learner's progress counters.
package badges

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	TypePrompts = "prompts"
	TypeApps    = "apps"
)

type Definition struct {
	ID        string `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Type      string `yaml:"type" json:"type"`
	Threshold int    `yaml:"threshold" json:"threshold"`
}

type Badge struct {
	Definition
	Earned bool `json:"earned"`
}

type Table struct {
	Badges []Definition `yaml:"badges"`
}

//go:embed badges.yaml
var defaultYAML []byte

var (
	defaultOnce  sync.Once
	defaultTable Table
	defaultErr   error
)

// Default returns the embedded table.
func Default() (Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultYAML)
	})
	return defaultTable, defaultErr
}

func Parse(raw []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("parse badge table: %w", err)
	}
	seen := map[string]bool{}
	for _, d := range t.Badges {
		if d.ID == "" {
			return Table{}, fmt.Errorf("badge without id")
		}
		if seen[d.ID] {
			return Table{}, fmt.Errorf("duplicate badge id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Type != TypePrompts && d.Type != TypeApps {
			return Table{}, fmt.Errorf("badge %q: unknown type %q", d.ID, d.Type)
		}
		if d.Threshold < 0 {
			return Table{}, fmt.Errorf("badge %q: negative threshold", d.ID)
		}
	}
	return t, nil
}

// Evaluate marks every badge in table whose counter meets its threshold.
// Duplicate app names count once.
func Evaluate(table Table, prompts int, appsUnlocked []string) []Badge {
	apps := distinct(appsUnlocked)
	out := make([]Badge, 0, len(table.Badges))
	for _, d := range table.Badges {
		var have int
		switch d.Type {
		case TypePrompts:
			have = prompts
		case TypeApps:
			have = apps
		}
		out = append(out, Badge{Definition: d, Earned: have >= d.Threshold})
	}
	return out
}

func distinct(items []string) int {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return len(set)
}
