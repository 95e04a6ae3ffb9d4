package harness

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/weiihann/taoperf/definition"
)

// ErrUnknownPlaceholder is returned when a template references a name that
// is neither ${args} nor an override key of the case.
var ErrUnknownPlaceholder = errors.New("unknown template placeholder")

// DefaultTemplate passes the case fragment through unchanged.
const DefaultTemplate = "${args}"

// EnvPrefix prefixes the environment variables exported for overrides.
const EnvPrefix = "TAOPERF_"

// LaunchConfig controls how cases are turned into commands.
type LaunchConfig struct {
	BinDir string
	// ClientTemplate and ServerTemplate may reference ${args} and any
	// override key, e.g. "${args} -payload ${payload}".
	ClientTemplate string
	ServerTemplate string
}

// Compose builds the client and server commands for case c of group g.
func Compose(
	g definition.Group,
	c definition.Case,
	cfg LaunchConfig,
) (client, server CommandConfig, err error) {
	env := overrideEnv(c.Overrides)

	clientArgs, err := expand(templateOr(cfg.ClientTemplate), c.ClientArgs, c)
	if err != nil {
		return client, server, fmt.Errorf(
			"client template for %q/%q: %w", g.Title, c.Label, err,
		)
	}

	serverArgs, err := expand(templateOr(cfg.ServerTemplate), c.ServerArgs, c)
	if err != nil {
		return client, server, fmt.Errorf(
			"server template for %q/%q: %w", g.Title, c.Label, err,
		)
	}

	client = CommandConfig{
		Binary: ResolveBinary(cfg.BinDir, g.Product, RoleClient),
		Args:   clientArgs,
		Env:    env,
	}
	server = CommandConfig{
		Binary: ResolveBinary(cfg.BinDir, g.Product, RoleServer),
		Args:   serverArgs,
		Env:    slices.Clone(env),
	}

	return client, server, nil
}

func templateOr(tmpl string) string {
	if strings.TrimSpace(tmpl) == "" {
		return DefaultTemplate
	}

	return tmpl
}

func expand(tmpl, fragment string, c definition.Case) ([]string, error) {
	if err := checkPlaceholders(tmpl); err != nil {
		return nil, err
	}

	var unknown []string

	out := os.Expand(tmpl, func(name string) string {
		if name == "args" {
			return fragment
		}

		if v, ok := c.Override(name); ok {
			return v
		}

		unknown = append(unknown, name)

		return ""
	})

	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s",
			ErrUnknownPlaceholder, strings.Join(unknown, ", "))
	}

	return Tokenize(out), nil
}

// checkPlaceholders rejects the forms os.Expand drops without calling the
// mapping: "${}" and a "${" with no closing brace.
func checkPlaceholders(tmpl string) error {
	rest := tmpl

	for {
		i := strings.Index(rest, "${")
		if i < 0 {
			return nil
		}

		rest = rest[i+2:]

		end := strings.IndexByte(rest, '}')
		switch {
		case end < 0:
			return fmt.Errorf("%w: unclosed \"${\"", ErrUnknownPlaceholder)
		case end == 0:
			return fmt.Errorf("%w: empty \"${}\"", ErrUnknownPlaceholder)
		}

		rest = rest[end+1:]
	}
}

func overrideEnv(overrides []definition.Override) []string {
	if len(overrides) == 0 {
		return nil
	}

	env := make([]string, 0, len(overrides))
	for _, o := range overrides {
		env = append(env, EnvPrefix+strings.ToUpper(o.Key)+"="+o.Value)
	}

	sort.Strings(env)

	return env
}
