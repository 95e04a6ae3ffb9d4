// Package report formats the benchmark definition table into markdown,
// JSON, and YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/taoperf/definition"
)

// Summary holds counts over a set of groups.
type Summary struct {
	Groups       int            `json:"groups" yaml:"groups"`
	Cases        int            `json:"cases" yaml:"cases"`
	PayloadCases int            `json:"payload_cases" yaml:"payload_cases"`
	ByLabel      map[string]int `json:"by_label" yaml:"by_label"`
}

// Generate writes a markdown table per group.
func Generate(w io.Writer, groups []definition.Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("no groups to report")
	}

	fmt.Fprintln(w, "## Benchmark Definitions")

	for _, g := range groups {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "### %s (%s)\n", g.Title, g.Product)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Case | Client | Server | Payload |")
		fmt.Fprintln(w, "|------|--------|--------|---------|")

		for _, c := range g.Cases {
			size, ok, err := c.Payload()
			if err != nil {
				return fmt.Errorf("%q/%q: %w", g.Title, c.Label, err)
			}

			payload := "-"
			if ok {
				payload = FormatPayload(uint64(size))
			}

			fmt.Fprintf(w, "| %s | `%s` | `%s` | %s |\n",
				c.Label,
				strings.TrimSpace(c.ClientArgs),
				strings.TrimSpace(c.ServerArgs),
				payload,
			)
		}
	}

	return nil
}

// GenerateJSON writes groups as JSON to w.
func GenerateJSON(w io.Writer, groups []definition.Group) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(groups)
}

// GenerateYAML writes groups as YAML to w.
func GenerateYAML(w io.Writer, groups []definition.Group) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(groups); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

// Summarize counts groups, cases, and cases per label.
func Summarize(groups []definition.Group) Summary {
	s := Summary{
		Groups:  len(groups),
		ByLabel: make(map[string]int),
	}

	for _, g := range groups {
		for _, c := range g.Cases {
			s.Cases++
			s.ByLabel[c.Label]++

			if _, ok := c.Override(definition.PayloadKey); ok {
				s.PayloadCases++
			}
		}
	}

	return s
}

// FormatPayload renders a payload size in bytes, e.g. 2000 -> "2 KB".
// Sizes are decimal, matching how payload groups are titled.
func FormatPayload(b uint64) string {
	if b == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	size := float64(b)
	unit := 0

	for size >= 1000 && unit < len(units)-1 {
		size /= 1000
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
