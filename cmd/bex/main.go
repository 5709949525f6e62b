// Command bex is a thin CLI adapter over pkg/bdd, pkg/swarm, and
// pkg/serial: it reads tokens (a tiny Boolean expression language) and
// calls core operations, exactly the "shell merely reads tokens and calls
// core operations" role SPEC_FULL.md §1 assigns the interactive surface.
// Grounded on cmd/z80opt's cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oisee/boolex/pkg/bdd"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/serial"
	"github.com/oisee/boolex/pkg/swarm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bex",
		Short: "bex — build, evaluate, and export Boolean Decision Diagrams",
	}

	var nvars int

	buildCmd := &cobra.Command{
		Use:   "build <expr>",
		Short: "Build a Boolean expression and print its canonical NID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := bdd.New()
			n, err := ParseExpr(s, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s  (%d nodes)\n", n.String(), s.NodeCount(n))
			return nil
		},
	}

	ttCmd := &cobra.Command{
		Use:   "tt <expr>",
		Short: "Print the full truth table of a Boolean expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := bdd.New()
			n, err := ParseExpr(s, args[0])
			if err != nil {
				return err
			}
			v := resolveVars(nvars, args[0])
			tt := s.TT(n, v)
			for i, b := range tt {
				fmt.Printf("%0*b -> %d\n", v, i, b)
			}
			return nil
		},
	}
	ttCmd.Flags().IntVar(&nvars, "vars", 0, "Number of variables (0 = inferred from the expression)")

	solveCmd := &cobra.Command{
		Use:   "solve <expr>",
		Short: "Print every satisfying assignment of a Boolean expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := bdd.New()
			n, err := ParseExpr(s, args[0])
			if err != nil {
				return err
			}
			v := resolveVars(nvars, args[0])
			it := s.SolutionsPad(n, v)
			count := 0
			for {
				reg, ok := it.Next()
				if !ok {
					break
				}
				fmt.Println(formatAssignment(reg))
				count++
			}
			fmt.Printf("%d solution(s)\n", count)
			return nil
		},
	}
	solveCmd.Flags().IntVar(&nvars, "vars", 0, "Number of variables (0 = inferred from the expression)")

	var exportOut string
	exportCmd := &cobra.Command{
		Use:   "export <expr>",
		Short: "Build an expression and write it in the bex-bdd-0.01 format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := bdd.New()
			n, err := ParseExpr(s, args[0])
			if err != nil {
				return err
			}
			s.Tag("root", n)
			if exportOut == "" {
				return serial.WriteBDD(os.Stdout, serial.ExportBDD(s, []nid.NID{n}))
			}
			if err := serial.ExportBDDFile(exportOut, s, []nid.NID{n}); err != nil {
				return err
			}
			fmt.Printf("written to %s\n", exportOut)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file path (default: stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Reload a bex-bdd-0.01 file and print its node count and roots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, keep, err := serial.ImportBDDFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d nodes, %d kept root(s)\n", s.Len(), len(keep))
			for i, k := range keep {
				fmt.Printf("  keep[%d] = %s\n", i, k.String())
			}
			return nil
		},
	}

	var workers int
	swarmStatsCmd := &cobra.Command{
		Use:   "swarm-stats <expr>",
		Short: "Build an expression through pkg/swarm and print its cache stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := bdd.New()
			pool := swarm.New(workers)
			s.SetParallel(pool)
			n, err := ParseExpr(s, args[0])
			if err != nil {
				return err
			}
			tests, hits := pool.Stats()
			fmt.Printf("%s  (%d nodes, %d workers)\n", n.String(), s.NodeCount(n), pool.NumWorkers)
			fmt.Printf("cache: %d tests, %d hits\n", tests, hits)
			return nil
		},
	}
	swarmStatsCmd.Flags().IntVar(&workers, "workers", 0, "Number of swarm workers (0 = NumCPU)")

	rootCmd.AddCommand(buildCmd, ttCmd, solveCmd, exportCmd, importCmd, swarmStatsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVars returns n if n > 0, else infers the variable count from expr.
func resolveVars(n int, expr string) int {
	if n > 0 {
		return n
	}
	return countVars(expr)
}

// formatAssignment renders a solution register (reg[k] = xk) as "x0=1 x1=0 ...".
func formatAssignment(reg []bool) string {
	out := ""
	for i, b := range reg {
		if i > 0 {
			out += " "
		}
		bit := "0"
		if b {
			bit = "1"
		}
		out += fmt.Sprintf("x%d=%s", i, bit)
	}
	return out
}
