package definition

import (
	"errors"
	"fmt"
	"strings"
)

// Invariant violations reported by Validate. Each reported error wraps one
// of these and names the offending group, and case where one applies.
var (
	ErrDuplicateTitle   = errors.New("duplicate group title")
	ErrDuplicateLabel   = errors.New("duplicate case label")
	ErrEmptyOverrides   = errors.New("empty override list")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrPayloadMismatch  = errors.New("payload does not match group title")
	ErrUnquotedFragment = errors.New("argument fragment needs shell quoting")
)

// shellSpecial lists characters a plain space-separated fragment must not
// contain.
const shellSpecial = "\"'`\\$&|;<>()*?[]{}~#!\t\n"

// titlePayloads maps a group title suffix to the payload it implies.
var titlePayloads = map[string]string{
	"with 2k payload":  payload2K,
	"with 10k payload": payload10K,
}

// Validate checks groups against the table invariants and returns every
// violation found, joined.
func Validate(groups []Group) error {
	var errs []error

	titles := make(map[string]struct{}, len(groups))

	for _, g := range groups {
		if _, dup := titles[g.Title]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateTitle, g.Title))
		}
		titles[g.Title] = struct{}{}

		errs = append(errs, validateGroup(g)...)
	}

	return errors.Join(errs...)
}

func validateGroup(g Group) []error {
	var errs []error

	want, hasWant := impliedPayload(g.Title)
	labels := make(map[string]struct{}, len(g.Cases))

	for _, c := range g.Cases {
		where := fmt.Sprintf("%q/%q", g.Title, c.Label)

		if _, dup := labels[c.Label]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateLabel, where))
		}
		labels[c.Label] = struct{}{}

		for _, frag := range []string{c.ClientArgs, c.ServerArgs} {
			if strings.ContainsAny(frag, shellSpecial) {
				errs = append(errs, fmt.Errorf("%w: %s: %q",
					ErrUnquotedFragment, where, frag))
			}
		}

		if c.Overrides != nil && len(c.Overrides) == 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyOverrides, where))
		}

		got, ok := c.Override(PayloadKey)
		if ok {
			if _, err := parsePayload(got); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %q",
					ErrInvalidPayload, where, got))

				continue
			}
		}

		switch {
		case hasWant && got != want:
			errs = append(errs, fmt.Errorf("%w: %s: got %q, want %q",
				ErrPayloadMismatch, where, got, want))
		case !hasWant && ok:
			errs = append(errs, fmt.Errorf("%w: %s: unexpected payload %q",
				ErrPayloadMismatch, where, got))
		}
	}

	return errs
}

func impliedPayload(title string) (string, bool) {
	for suffix, size := range titlePayloads {
		if strings.HasSuffix(title, suffix) {
			return size, true
		}
	}

	return "", false
}
