// Command rete-reasoner is the CLI entry point for the forward-chaining
// production-rule reasoner (SPEC_FULL.md §6 "CLI surface"). It wires the
// core (C1-C5), the reference matcher, the surface parser, the schema-check
// subsystem, and the interactive REPL/chat translator into one runnable
// program, following the architectural teacher's cobra root-command plus
// zap top-level-logger pattern (cmd/nerd/main.go).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dsouflis/rete-reasoner/internal/chat"
	"github.com/dsouflis/rete-reasoner/internal/config"
	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/matcher"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
	"github.com/dsouflis/rete-reasoner/internal/parser"
	"github.com/dsouflis/rete-reasoner/internal/query"
	"github.com/dsouflis/rete-reasoner/internal/reasoner"
	"github.com/dsouflis/rete-reasoner/internal/repl"
	"github.com/dsouflis/rete-reasoner/internal/resolver"
	"github.com/dsouflis/rete-reasoner/internal/rules"
	"github.com/dsouflis/rete-reasoner/internal/schema"
	"github.com/dsouflis/rete-reasoner/internal/tms"
)

var (
	filePath     string
	strategyName string
	schemaCheck  bool
	interactive  bool
	trace        bool
	configPath   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rete-reasoner",
	Short: "A justification-maintained, fuzzy-aware forward-chaining production-rule reasoner",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "input file to load (required)")
	rootCmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "conflict-resolution strategy (prefix-matched; default first-match)")
	rootCmd.Flags().BoolVarP(&schemaCheck, "schema-check", "c", false, "enable schema-check warnings")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "drop into an interactive REPL after loading")
	rootCmd.Flags().BoolVarP(&trace, "trace", "t", false, "enable trace-level (debug) logging")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (absence is not an error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	zcfg := zap.NewProductionConfig()
	if trace {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if filePath == "" {
		return cmd.Help()
	}

	if trace || cfg.Reasoner.Trace {
		obslog.SetDebug(true)
	}

	inv := rules.New()
	schemaReg := schema.New()
	schemaReg.Enabled = schemaCheck || cfg.Reasoner.SchemaCheck

	fuzzyReg := fuzzy.NewRegistry()
	if sys, ok := fuzzy.SystemByName(cfg.Reasoner.FuzzySystem); ok {
		fuzzyReg.SetSystem(sys)
	}

	store := tms.New()
	m := matcher.New(fuzzyReg)

	nmax := cfg.Reasoner.NMax
	ctx := reasoner.New(inv, store, m, fuzzyReg, nil, nmax)

	loader := parser.NewLoader(inv, schemaReg, fuzzyReg, ctx)
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", filePath, err)
	}
	loadErr := loader.Load(f)
	f.Close()
	if loadErr != nil {
		return loadErr
	}

	name := strategyName
	if name == "" {
		name = cfg.Reasoner.Strategy
	}
	strat, warn := resolver.Resolve(name, inv.StratumCount())
	if warn != "" {
		obslog.Resolver.Warnf("%s", warn)
	}
	ctx.Strategy = strat
	ctx.Compile()

	if ctx.NonDeterministicFixpoint {
		logger.Info("LHS conditions include negation; a non-deterministic fixed point cannot be ruled out")
	}

	res := ctx.Run()
	if !res.Converged {
		fmt.Fprintf(os.Stderr, "warning: cycle limit %d exceeded; run declared non-convergent at cycle %d\n", ctx.NMax, res.Cycles)
	}
	logger.Info("run complete", zap.Int("cycles", res.Cycles), zap.Bool("converged", res.Converged), zap.String("strategy", strat.Name()))

	for _, q := range loader.Queries {
		fmt.Print(query.Run(ctx.Matcher, q.LHS, q.Vars))
	}

	if interactive {
		gate := chat.NewGate(os.Getenv("OPENAI_API_KEY"))
		r := &repl.REPL{
			Ctx:       ctx,
			Inventory: inv,
			Schema:    schemaReg,
			Fuzzy:     fuzzyReg,
			Gate:      gate,
			In:        os.Stdin,
			Out:       os.Stdout,
		}
		r.Run()
	}

	return nil
}
