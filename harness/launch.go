// Package harness describes how a benchmark case is launched: which client
// and server executables run it and with which arguments. It never starts a
// process itself.
package harness

import (
	"path/filepath"
	"strings"

	"github.com/weiihann/taoperf/definition"
)

// Role selects the client or server side of a case.
type Role string

const (
	RoleClient Role = "client"
	RoleServer Role = "server"
)

// CommandConfig holds the resolved binary, arguments, and environment
// variables a harness would run for one side of a case.
type CommandConfig struct {
	Binary string   `json:"binary"`
	Args   []string `json:"args"`
	Env    []string `json:"env,omitempty"`
}

// KnownProducts returns the list of products with definition tables.
func KnownProducts() []string {
	return []string{definition.Product}
}

// ResolveBinary returns the expected executable path for one side of a
// product's benchmark, given the directory holding the built binaries.
func ResolveBinary(binDir, product string, role Role) string {
	switch product {
	case definition.Product:
		return filepath.Join(binDir, string(role))
	default:
		return filepath.Join(
			binDir, strings.ToLower(product)+"-"+string(role),
		)
	}
}

// Tokenize splits an argument fragment on plain whitespace.
func Tokenize(fragment string) []string {
	return strings.Fields(fragment)
}
