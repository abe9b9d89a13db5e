package driver

import (
	"os"
	"strings"
)

const (
	// EnvPrintAST prints the parsed records and stops before emission.
	EnvPrintAST = "RID_PRINT_AST"
	// EnvBindingDart names an extra path the client source is copied to.
	EnvBindingDart = "RID_BINDING_DART"
)

// Env holds the environment toggles of one invocation.
type Env struct {
	PrintRecords bool
	ClientCopy   string
}

// ReadEnv reads the toggles from the process environment.
func ReadEnv() Env { return readEnv(os.Getenv) }

func readEnv(get func(string) string) Env {
	return Env{
		PrintRecords: truthy(get(EnvPrintAST)),
		ClientCopy:   strings.TrimSpace(get(EnvBindingDart)),
	}
}

// truthy treats any non-empty value except 0/false/no/off as set.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
