// Package definition holds the TAO benchmark definition table: named groups
// of client/server argument fragments consumed by the perf harness.
package definition

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PayloadKey is the override key carrying a payload size in bytes.
const PayloadKey = "payload"

// Override is a single key/value substitution applied by the harness when
// it builds the launch command for a case.
type Override struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Case is one concurrency variant of a benchmark group.
type Case struct {
	Label      string     `json:"label" yaml:"label"`
	ClientArgs string     `json:"client_args" yaml:"client_args"`
	ServerArgs string     `json:"server_args" yaml:"server_args"`
	Overrides  []Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Group is a named set of cases sharing a test selector.
type Group struct {
	Product string `json:"product" yaml:"product"`
	Title   string `json:"title" yaml:"title"`
	// Reserved is always empty.
	Reserved string `json:"reserved" yaml:"reserved"`
	Cases    []Case `json:"cases" yaml:"cases"`
}

// Override returns the value of the first override with the given key.
func (c Case) Override(key string) (string, bool) {
	for _, o := range c.Overrides {
		if o.Key == key {
			return o.Value, true
		}
	}

	return "", false
}

// Payload returns the payload size override in bytes. ok is false when the
// case carries no payload override.
func (c Case) Payload() (size int, ok bool, err error) {
	v, ok := c.Override(PayloadKey)
	if !ok {
		return 0, false, nil
	}

	size, err = parsePayload(v)
	if err != nil {
		return 0, true, err
	}

	return size, true, nil
}

// parsePayload accepts only unsigned decimal digits.
func parsePayload(v string) (int, error) {
	if v == "" || strings.TrimLeft(v, "0123456789") != "" {
		return 0, fmt.Errorf("payload %q is not an unsigned integer", v)
	}

	size, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse payload %q: %w", v, err)
	}

	return size, nil
}

// Case returns the case with the given label.
func (g Group) Case(label string) (Case, bool) {
	for _, c := range g.Cases {
		if c.Label == label {
			return c, true
		}
	}

	return Case{}, false
}

// Labels returns the case labels in authoring order.
func (g Group) Labels() []string {
	labels := make([]string, 0, len(g.Cases))
	for _, c := range g.Cases {
		labels = append(labels, c.Label)
	}

	return labels
}

func (c Case) clone() Case {
	c.Overrides = slices.Clone(c.Overrides)

	return c
}

func (g Group) clone() Group {
	cases := make([]Case, len(g.Cases))
	for i, c := range g.Cases {
		cases[i] = c.clone()
	}
	g.Cases = cases

	return g
}
