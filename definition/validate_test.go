package definition

import (
	"errors"
	"testing"
)

func TestValidateTable(t *testing.T) {
	if err := Validate(Definitions()); err != nil {
		t.Fatalf("Validate failed on the static table: %v", err)
	}
}

func TestValidateViolations(t *testing.T) {
	ok := Case{Label: "1tp", ClientArgs: ReactiveConf + " latency twoway", ServerArgs: threadPoolOne}

	withOverrides := func(ov []Override) Case {
		c := ok
		c.Overrides = ov

		return c
	}

	tests := []struct {
		name   string
		groups []Group
		want   error
	}{
		{
			name: "duplicate title",
			groups: []Group{
				group("latency twoway", []Case{ok}),
				group("latency twoway", []Case{ok}),
			},
			want: ErrDuplicateTitle,
		},
		{
			name:   "duplicate label",
			groups: []Group{group("latency twoway", []Case{ok, ok})},
			want:   ErrDuplicateLabel,
		},
		{
			name:   "empty overrides",
			groups: []Group{group("latency twoway", []Case{withOverrides([]Override{})})},
			want:   ErrEmptyOverrides,
		},
		{
			name:   "invalid payload",
			groups: []Group{group("latency twoway with 2k payload", []Case{withOverrides(payload("2k"))})},
			want:   ErrInvalidPayload,
		},
		{
			name:   "signed payload",
			groups: []Group{group("latency twoway with 2k payload", []Case{withOverrides(payload("+2000"))})},
			want:   ErrInvalidPayload,
		},
		{
			name:   "payload mismatch",
			groups: []Group{group("latency twoway with 10k payload", []Case{withOverrides(payload(payload2K))})},
			want:   ErrPayloadMismatch,
		},
		{
			name:   "missing payload",
			groups: []Group{group("latency oneway with 2k payload", []Case{ok})},
			want:   ErrPayloadMismatch,
		},
		{
			name:   "payload without suffix",
			groups: []Group{group("latency oneway", []Case{withOverrides(payload(payload2K))})},
			want:   ErrPayloadMismatch,
		},
		{
			name: "quoted fragment",
			groups: []Group{group("latency twoway", []Case{
				{Label: "1tp", ClientArgs: ok.ClientArgs + " 'ami'", ServerArgs: ok.ServerArgs},
			})},
			want: ErrUnquotedFragment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.groups)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateSignedPayloadIsNotMismatch(t *testing.T) {
	c := Case{
		Label:      "1tp",
		ClientArgs: ReactiveConf + " latency twoway",
		ServerArgs: threadPoolOne,
		Overrides:  payload("+2000"),
	}

	err := Validate([]Group{group("latency twoway with 2k payload", []Case{c})})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("err = %v, want ErrInvalidPayload", err)
	}
	if errors.Is(err, ErrPayloadMismatch) {
		t.Errorf("err = %v, should not report a mismatch", err)
	}
}

func TestValidateCollectsAll(t *testing.T) {
	bad := Case{Label: "x", ClientArgs: "a;b", ServerArgs: "c", Overrides: []Override{}}

	err := Validate([]Group{
		group("latency twoway", []Case{bad, bad}),
		group("latency twoway", nil),
	})
	if err == nil {
		t.Fatal("expected violations")
	}

	for _, want := range []error{
		ErrDuplicateTitle,
		ErrDuplicateLabel,
		ErrEmptyOverrides,
		ErrUnquotedFragment,
	} {
		if !errors.Is(err, want) {
			t.Errorf("err = %v, missing %v", err, want)
		}
	}
}
