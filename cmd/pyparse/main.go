// Command pyparse parses a Python source file and prints its tree,
// name usages, or collected warnings.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/parser"
	"github.com/d42/jedi/printer"
	"github.com/d42/jedi/token"
)

var (
	cursor      string
	noDocstring bool
	lineOffset  int
	format      string
)

// parseCursor accepts "line:col", 0-based column, matching the flag's
// documented form.
func parseCursor(s string) (*token.Position, error) {
	if s == "" {
		return nil, nil
	}
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("--cursor wants line:col, got %q", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return nil, fmt.Errorf("--cursor line: %w", err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return nil, fmt.Errorf("--cursor col: %w", err)
	}
	pos := token.Position{Line: l, Column: c}
	return &pos, nil
}

func parseFile(path string) (*ast.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts := parser.Options{
		ModulePath: path,
		LineOffset: lineOffset,
	}
	if noDocstring {
		opts.Mode |= parser.NoDocstring
	}
	pos, err := parseCursor(cursor)
	if err != nil {
		return nil, err
	}
	opts.UserPosition = pos
	return parser.Parse(string(src), opts), nil
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file and report its top-level shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := parseFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("module %s (builtin=%v)\n", module.Name(), module.IsBuiltin())
			fmt.Printf("  statements: %d\n", len(module.Statements()))
			fmt.Printf("  imports: %d\n", len(module.Imports()))
			fmt.Printf("  subscopes: %d\n", len(module.Subscopes()))
			fmt.Printf("  used names: %d\n", len(module.UsedNames))
			if module.UserScope != nil {
				fmt.Printf("  cursor scope: %T\n", module.UserScope)
			}
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the parsed tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := parseFile(args[0])
			if err != nil {
				return err
			}
			writer := colorable.NewColorableStdout()
			switch format {
			case "", "tree":
				p := printer.NewPrinter()
				writer.Write([]byte(p.PrintTree(module)))
			case "dot":
				p := printer.NewPrinter()
				writer.Write([]byte(p.PrintDot(module)))
			case "dump":
				return ast.Dump(writer, module)
			default:
				return fmt.Errorf("unknown --format %q (want tree, dump, or dot)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "tree", "tree (colorized), dump (plain), or dot (Graphviz)")
	return cmd
}

func newWarningsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warnings [file]",
		Short: "Print anomalies recorded while parsing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := parseFile(args[0])
			if err != nil {
				return err
			}
			out := parser.FormatWarnings(module, true)
			if out == "" {
				fmt.Println("no warnings")
				return nil
			}
			fmt.Print(out)
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:   "pyparse",
		Short: "Parse Python source into a recoverable, position-aware tree",
	}
	root.PersistentFlags().StringVar(&cursor, "cursor", "", "line:col (1-based line, 0-based column), enables user_scope/user_stmt tracking")
	root.PersistentFlags().BoolVar(&noDocstring, "no-docstr", false, "don't consume a scope's leading string statement as its docstring")
	root.PersistentFlags().IntVar(&lineOffset, "line-offset", 0, "add this offset to every reported line number")

	root.AddCommand(newParseCmd(), newDumpCmd(), newWarningsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pyparse: %v\n", err)
		os.Exit(1)
	}
}
