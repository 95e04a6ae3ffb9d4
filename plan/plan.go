// Package plan writes deterministic JSONL launch plans for the benchmark
// definition table. Each line describes one case: the client and server
// commands a harness would run for it.
package plan

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/weiihann/taoperf/definition"
	"github.com/weiihann/taoperf/harness"
)

// Filter errors. A case label is unknown when none of the selected groups
// has a case with that label.
var (
	ErrUnknownGroup = errors.New("unknown group")
	ErrUnknownCase  = errors.New("unknown case")
)

// Entry is a single launch description in the plan.
type Entry struct {
	RunID     string                `json:"run_id"`
	Product   string                `json:"product"`
	Group     string                `json:"group"`
	Case      string                `json:"case"`
	Client    harness.CommandConfig `json:"client"`
	Server    harness.CommandConfig `json:"server"`
	Overrides map[string]string     `json:"overrides,omitempty"`
}

// Summary contains statistics about the generated plan.
type Summary struct {
	Groups       int
	Cases        int
	PayloadCases int
}

// Config controls plan generation.
type Config struct {
	RunID string
	// Groups restricts the plan to these titles. Empty selects all.
	Groups []string
	// Cases restricts the plan to these case labels. Empty selects all.
	Cases  []string
	Launch harness.LaunchConfig
}

// Generator produces launch plans from a Config.
type Generator struct {
	cfg    Config
	groups []definition.Group
}

// NewGenerator creates a Generator over the full definition table.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg:    cfg,
		groups: definition.Definitions(),
	}
}

// Generate writes a JSONL plan to w and returns a Summary.
func (g *Generator) Generate(w io.Writer) (Summary, error) {
	var summary Summary

	if err := g.checkFilters(); err != nil {
		return summary, err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, gr := range g.groups {
		if !selected(g.cfg.Groups, gr.Title) {
			continue
		}

		matched := false

		for _, c := range gr.Cases {
			if !selected(g.cfg.Cases, c.Label) {
				continue
			}

			client, server, err := harness.Compose(gr, c, g.cfg.Launch)
			if err != nil {
				return summary, fmt.Errorf("compose: %w", err)
			}

			if err := enc.Encode(Entry{
				RunID:     g.cfg.RunID,
				Product:   gr.Product,
				Group:     gr.Title,
				Case:      c.Label,
				Client:    client,
				Server:    server,
				Overrides: overrideMap(c.Overrides),
			}); err != nil {
				return summary, fmt.Errorf("encode %q/%q: %w", gr.Title, c.Label, err)
			}

			matched = true
			summary.Cases++

			if len(c.Overrides) > 0 {
				summary.PayloadCases++
			}
		}

		if matched {
			summary.Groups++
		}
	}

	return summary, nil
}

func (g *Generator) checkFilters() error {
	for _, title := range g.cfg.Groups {
		if !slices.ContainsFunc(g.groups, func(gr definition.Group) bool {
			return gr.Title == title
		}) {
			return fmt.Errorf("%w %q", ErrUnknownGroup, title)
		}
	}

	for _, label := range g.cfg.Cases {
		if !slices.ContainsFunc(g.groups, func(gr definition.Group) bool {
			if !selected(g.cfg.Groups, gr.Title) {
				return false
			}

			_, ok := gr.Case(label)

			return ok
		}) {
			return fmt.Errorf("%w %q", ErrUnknownCase, label)
		}
	}

	return nil
}

// Read parses a JSONL plan written by Generate.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		if len(scanner.Bytes()) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	return entries, nil
}

func selected(filter []string, name string) bool {
	return len(filter) == 0 || slices.Contains(filter, name)
}

func overrideMap(overrides []definition.Override) map[string]string {
	if len(overrides) == 0 {
		return nil
	}

	m := make(map[string]string, len(overrides))
	for _, o := range overrides {
		m[o.Key] = o.Value
	}

	return m
}
