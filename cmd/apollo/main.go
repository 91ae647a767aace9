// ==============================================================================================
// FILE: cmd/apollo/main.go
// ==============================================================================================
// PACKAGE: main
// PURPOSE: The CLI driver. Wires token/lexer/ast/parser/object/evaluator into a runnable program:
//          an optional script path runs a file; with none given it starts the REPL.
// ==============================================================================================

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"apollo/evaluator"
	"apollo/lexer"
	"apollo/object"
	"apollo/parser"
	"apollo/repl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	exitCode := 0

	root := &cobra.Command{
		Use:           "apollo [script]",
		Short:         "Apollo is a tree-walking interpreter for a small indentation-sensitive scripting language",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) == 0 {
				repl.Start(os.Stdin, os.Stdout)
				return nil
			}
			code, err := runFile(cmdArgs[0])
			exitCode = code
			return err
		},
	}
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if exitCode == 0 {
			exitCode = 2
		}
		fmt.Fprintln(os.Stderr, err)
	}
	return exitCode
}

// runFile reads and executes a script, returning the process exit code:
// 2 for a missing file, non-zero for a parse or runtime failure, 0 on success.
func runFile(filename string) (int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 2, fmt.Errorf("file %s was not found", filename)
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	evaluator.SetLogger(log)

	p := parser.New(lexer.New(string(data)))
	statements, err := p.Parse()
	if err != nil {
		report(err)
		return 1, nil
	}

	globals := object.NewGlobals()
	if _, err := evaluator.New(globals).Interpret(statements); err != nil {
		report(err)
		return 1, nil
	}
	return 0, nil
}

// report renders a diagnostic: "[line N] Error at end: MSG" when the
// offending token is EOF, "[line N] Error at TYPE LEXEME: MSG" otherwise.
// A *parser.ParseError already formats itself this way; a
// *evaluator.RuntimeError needs the wrapping applied here.
func report(err error) {
	var rt *evaluator.RuntimeError
	if ok := asRuntimeError(err, &rt); ok {
		fmt.Fprintf(os.Stderr, "[line %d] Error at %s %s: %s\n", rt.Token.Line, rt.Token.Type, rt.Token.Lexeme, rt.Msg)
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

func asRuntimeError(err error, target **evaluator.RuntimeError) bool {
	if oe, ok := err.(*object.Error); ok {
		err = oe.Unwrap()
	}
	rt, ok := err.(*evaluator.RuntimeError)
	if !ok {
		return false
	}
	*target = rt
	return true
}
