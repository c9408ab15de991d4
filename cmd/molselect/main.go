// Command molselect is a demonstration CLI over the molselect library:
// parse a query into its IR, evaluate it against a built-in fixture
// structure, and list the registered keyword/macro catalog. It is the
// ambient harness around the library, not the library itself (spec.md §1
// Non-goals name CLI front-ends as out of scope for the core).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dangerclosesec/molselect/eval"
	"github.com/dangerclosesec/molselect/grammar"
	"github.com/dangerclosesec/molselect/macro"
	"github.com/dangerclosesec/molselect/parser"
	"github.com/dangerclosesec/molselect/registry"
)

var (
	verbose     bool
	fixtureName string
	logger      *slog.Logger
)

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	evalCmd.Flags().StringVar(&fixtureName, "fixture", "demo", "Built-in fixture structure to evaluate against")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(macrosCmd)
}

var rootCmd = &cobra.Command{
	Use:   "molselect",
	Short: "molselect is a CLI for the MolSelect atom-selection query language",
	Long:  `molselect parses, expands, and evaluates MolSelect queries against a MolecularContext.`,
}

// buildGrammar assembles a default registry and grammar, the pipeline
// every subcommand needs before it can touch a query string.
func buildGrammar() (*registry.Registry, *grammar.Grammar, error) {
	reg := registry.NewDefault()
	g, err := grammar.Assemble(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("assembling grammar: %w", err)
	}
	reg.Freeze()
	return reg, g, nil
}

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Parse a query and print its expanded IR tree",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]

		_, g, err := buildGrammar()
		if err != nil {
			logger.Error("failed to build grammar", "err", err)
			os.Exit(1)
		}

		pred, err := parser.Parse(g, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			os.Exit(1)
		}

		if verbose {
			fmt.Printf("query:  %s\n", query)
		}
		fmt.Println(pred.String())

		expanded, err := macro.Expand(g, pred)
		if err != nil {
			fmt.Fprintf(os.Stderr, "macro expansion error: %v\n", err)
			os.Exit(1)
		}
		if expanded.String() != pred.String() {
			fmt.Printf("expanded: %s\n", expanded.String())
		}
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [query]",
	Short: "Evaluate a query against a built-in fixture structure",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]

		build, ok := fixtures[fixtureName]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown fixture %q\n", fixtureName)
			os.Exit(1)
		}
		ctx := build()

		_, g, err := buildGrammar()
		if err != nil {
			logger.Error("failed to build grammar", "err", err)
			os.Exit(1)
		}

		pred, err := parser.Parse(g, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			os.Exit(1)
		}

		pred, err = macro.Expand(g, pred)
		if err != nil {
			fmt.Fprintf(os.Stderr, "macro expansion error: %v\n", err)
			os.Exit(1)
		}

		mask, err := eval.Evaluate(pred, ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "evaluation error: %v\n", err)
			os.Exit(1)
		}

		count := 0
		for i, hit := range mask {
			if !hit {
				continue
			}
			count++
			if verbose {
				fmt.Printf("%d\n", i)
			}
		}
		fmt.Printf("%d of %d atoms selected\n", count, ctx.N())
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the registered keyword catalog",
	Run: func(cmd *cobra.Command, args []string) {
		reg := registry.NewDefault()
		reg.IterKeywords(func(kw registry.Keyword) {
			if len(kw.Synonyms) > 0 {
				fmt.Printf("%-20s %-8s %s\n", kw.Name, kw.Type, kw.Synonyms)
			} else {
				fmt.Printf("%-20s %-8s\n", kw.Name, kw.Type)
			}
			if verbose && kw.Description != "" {
				fmt.Printf("  %s\n", kw.Description)
			}
		})
	},
}

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List the registered macro catalog",
	Run: func(cmd *cobra.Command, args []string) {
		reg := registry.NewDefault()
		reg.IterMacros(func(m registry.Macro) {
			if m.Hidden() && !verbose {
				return
			}
			fmt.Printf("%-20s %s\n", m.Name, m.Definition)
		})
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
