package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docweaver",
	Short: "Convert XML documentation comments to Markdown",
	Long: `Docweaver turns the XML documentation file produced by a .NET compiler
into a single Markdown page: one heading per assembly, one section per member,
with parameter tables, lists, code samples and cross-references.

Configuration is read from docweaver.yaml when present; DOCWEAVER_* environment
variables override it and command line flags override both.`,
	Version:       Version,
	SilenceErrors: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default docweaver.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
