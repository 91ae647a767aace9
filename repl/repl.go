// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface.
//          It connects the user input stream to the compiler pipeline (Lexer->Parser->Evaluator)
//          and manages the persistent session state.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"apollo/evaluator"
	"apollo/lexer"
	"apollo/object"
	"apollo/parser"
)

// PROMPT is the prompt presented before each line of input.
const PROMPT = "apollo> "

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	resultColor = color.New(color.FgYellow)
	stringColor = color.New(color.FgGreen)
	boolColor   = color.New(color.FgCyan)
)

// Start launches the Read-Eval-Print Loop. It reads lines from in, evaluates
// each against a session-long global environment, and writes results to out.
// One line is read per iteration and empty input exits; a runtime error is
// reported and the loop continues rather than aborting the session.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	globals := object.NewGlobalsTo(out)
	eval := evaluator.New(globals)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			return
		}

		p := parser.New(lexer.New(line))
		statements, err := p.Parse()
		if err != nil {
			errorColor.Fprintln(out, err.Error())
			continue
		}

		results, err := eval.Interpret(statements)
		if err != nil {
			errorColor.Fprintln(out, err.Error())
			continue
		}
		for _, result := range results {
			printResult(out, result)
		}
	}
}

// printResult renders one evaluator result. A bare None is skipped so
// statements evaluated for effect stay silent.
func printResult(out io.Writer, obj object.Object) {
	if obj == nil || obj.Type() == object.NULL_OBJ {
		return
	}
	switch o := obj.(type) {
	case *object.Error:
		errorColor.Fprintln(out, o.Inspect())
	case *object.Integer, *object.Float:
		resultColor.Fprintln(out, obj.Inspect())
	case *object.Boolean:
		boolColor.Fprintln(out, obj.Inspect())
	case *object.String:
		stringColor.Fprintln(out, obj.Inspect())
	default:
		fmt.Fprintln(out, obj.Inspect())
	}
}
