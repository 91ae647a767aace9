// ==============================================================================================
// FILE: object/builtins.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Seeds the global environment with host built-ins — an explicit table of named
//          callables rather than anything reflected off the host runtime.
// ==============================================================================================

package object

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// BuiltinDef pairs a built-in callable with the global name it is seeded
// under.
type BuiltinDef struct {
	Name    string
	Builtin *Builtin
}

// Builtins is the closed list of native functions seeded into globals, each
// writing to standard output. Apollo names exactly one: print, writing
// space-joined Inspect() output followed by a newline.
var Builtins = builtinTable(os.Stdout)

func builtinTable(w io.Writer) []BuiltinDef {
	return []BuiltinDef{
		{
			"print",
			&Builtin{Fn: func(args ...Object) Object {
				return printTo(w, args...)
			}},
		},
	}
}

func printTo(w io.Writer, args ...Object) Object {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.Inspect())
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
	return &Null{}
}

// GetBuiltin looks up a built-in by name.
func GetBuiltin(name string) (*Builtin, bool) {
	for _, def := range Builtins {
		if def.Name == name {
			return def.Builtin, true
		}
	}
	return nil, false
}

// NewGlobals constructs a fresh global environment with every built-in
// already bound under its name.
func NewGlobals() *Environment {
	env := NewEnvironment()
	for _, def := range Builtins {
		env.Set(def.Name, def.Builtin)
	}
	return env
}

// NewGlobalsTo is NewGlobals with the built-ins' output redirected to w. The
// REPL threads its own writer through so a session's print output lands on
// the same stream as its results.
func NewGlobalsTo(w io.Writer) *Environment {
	env := NewEnvironment()
	for _, def := range builtinTable(w) {
		env.Set(def.Name, def.Builtin)
	}
	return env
}
