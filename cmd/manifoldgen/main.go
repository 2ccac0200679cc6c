// Command manifoldgen regenerates the Rust type declarations consumed by
// the geometry engine from the manifold TypeScript declaration files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/daccad/manifoldgen"
)

var (
	defsDir   string
	outDir    string
	rulesFile string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "manifoldgen",
	Short: "Generate Rust types from manifold TypeScript declarations",
	Long: `manifoldgen reads the manifold declaration files (manifold.d.ts,
manifold-global-types.d.ts, manifold-encapsulated-types.d.ts) and lowers
them into Rust declarations: serde structs, enums, type aliases, and
wasm_bindgen extern blocks, plus one shared file of placeholder structs
for unions that have no direct Rust representation.

The run is a one-shot batch: output files are rewritten from scratch on
every invocation and prior output is overwritten.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger(verbose)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		return manifoldgen.Generate(&manifoldgen.Config{
			DefsDir:   defsDir,
			OutDir:    outDir,
			RulesFile: rulesFile,
			Logger:    log,
		})
	},
}

func init() {
	rootCmd.Flags().StringVar(&defsDir, "defs", "bindings", "directory containing the .d.ts declaration files")
	rootCmd.Flags().StringVar(&outDir, "out", "src/manifold_types", "directory to write generated Rust files to")
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "optional TOML file with alias normalization rules")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every lowered declaration")
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
