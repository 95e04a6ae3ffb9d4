package harness

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/weiihann/taoperf/definition"
)

func lookupCase(t *testing.T, title, label string) (definition.Group, definition.Case) {
	t.Helper()

	g, ok := definition.Lookup(title)
	if !ok {
		t.Fatalf("group %q not found", title)
	}

	c, ok := g.Case(label)
	if !ok {
		t.Fatalf("case %q/%q not found", title, label)
	}

	return g, c
}

func TestResolveBinary(t *testing.T) {
	tests := []struct {
		product string
		role    Role
		want    string
	}{
		{"TAO", RoleClient, filepath.Join("bin", "client")},
		{"TAO", RoleServer, filepath.Join("bin", "server")},
		{"Ice", RoleServer, filepath.Join("bin", "ice-server")},
	}

	for _, tt := range tests {
		got := ResolveBinary("bin", tt.product, tt.role)
		if got != tt.want {
			t.Errorf("ResolveBinary(%q, %q) = %q, want %q",
				tt.product, tt.role, got, tt.want)
		}
	}
}

func TestKnownProducts(t *testing.T) {
	if got := KnownProducts(); !slices.Equal(got, []string{"TAO"}) {
		t.Errorf("KnownProducts() = %v, want [TAO]", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize(" -ORBSvcConf svc.threadPool.conf threadPool 4")
	want := []string{"-ORBSvcConf", "svc.threadPool.conf", "threadPool", "4"}

	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestComposeDefaultTemplate(t *testing.T) {
	g, c := lookupCase(t, "latency twoway", "4tp")

	client, server, err := Compose(g, c, LaunchConfig{BinDir: "bin"})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	wantClient := []string{"-ORBSvcConf", "svc.reactive.conf", "latency", "twoway"}
	if !slices.Equal(client.Args, wantClient) {
		t.Errorf("client args = %q, want %q", client.Args, wantClient)
	}

	wantServer := []string{"-ORBSvcConf", "svc.threadPool.conf", "threadPool", "4"}
	if !slices.Equal(server.Args, wantServer) {
		t.Errorf("server args = %q, want %q", server.Args, wantServer)
	}

	if client.Binary != filepath.Join("bin", "client") {
		t.Errorf("client binary = %q", client.Binary)
	}
	if server.Binary != filepath.Join("bin", "server") {
		t.Errorf("server binary = %q", server.Binary)
	}
	if client.Env != nil || server.Env != nil {
		t.Errorf("expected no env without overrides, got %q / %q",
			client.Env, server.Env)
	}
}

func TestComposePayloadTemplate(t *testing.T) {
	g, c := lookupCase(t, "latency oneway with 10k payload", "tpc blocking")

	client, server, err := Compose(g, c, LaunchConfig{
		ClientTemplate: "${args} -payload ${payload}",
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	wantClient := []string{
		"-ORBSvcConf", "svc.blocking.conf", "latency", "oneway",
		"-payload", "10000",
	}
	if !slices.Equal(client.Args, wantClient) {
		t.Errorf("client args = %q, want %q", client.Args, wantClient)
	}

	wantEnv := []string{"TAOPERF_PAYLOAD=10000"}
	if !slices.Equal(client.Env, wantEnv) {
		t.Errorf("client env = %q, want %q", client.Env, wantEnv)
	}
	if !slices.Equal(server.Env, wantEnv) {
		t.Errorf("server env = %q, want %q", server.Env, wantEnv)
	}
}

func TestComposeUnknownPlaceholder(t *testing.T) {
	g, c := lookupCase(t, "latency twoway", "1tp")

	tests := []struct {
		name string
		cfg  LaunchConfig
	}{
		{
			name: "missing override",
			cfg:  LaunchConfig{ServerTemplate: "${args} -payload ${payload}"},
		},
		{
			name: "empty placeholder",
			cfg:  LaunchConfig{ClientTemplate: "${args} -x ${}"},
		},
		{
			name: "unclosed placeholder",
			cfg:  LaunchConfig{ClientTemplate: "${args} -x ${payload"},
		},
		{
			name: "empty and unclosed",
			cfg:  LaunchConfig{ClientTemplate: "${args} -x ${} ${payload"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, err := Compose(g, c, tt.cfg)
			if !errors.Is(err, ErrUnknownPlaceholder) {
				t.Errorf("err = %v, want ErrUnknownPlaceholder", err)
			}
			if client.Args != nil {
				t.Errorf("client args = %q, want none", client.Args)
			}
		})
	}
}

func TestComposeAdjacentPlaceholders(t *testing.T) {
	g, c := lookupCase(t, "latency twoway AMI with 2k payload", "tpc")

	client, _, err := Compose(g, c, LaunchConfig{
		ClientTemplate: "${args} -size=${payload}B",
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if got := client.Args[len(client.Args)-1]; got != "-size=2000B" {
		t.Errorf("last client arg = %q, want -size=2000B", got)
	}
}
