// Package cmd wires the portdash command line: a web dashboard, a one-shot
// terminal listing, and an interactive stop command.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"portdash/internal/config"
	"portdash/internal/scan"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "portdash",
	Short: "Discover and manage locally listening services",
	Long: `portdash inspects the host's listening sockets, resolves each one to its
owning process, and reports identity, resource usage and external
reachability as a web dashboard, a terminal table, or an interactive
stop picker.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Warn("config unreadable, using defaults", "path", config.Path(), "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func newScanner() *scan.Scanner {
	return scan.New(scan.Options{
		ProbeTimeout: cfg.ProbeTimeout,
		EchoURL:      cfg.EchoURL,
		EchoTimeout:  cfg.EchoTimeout,
		CPUWindow:    cfg.CPUWindow,
		Workers:      cfg.Workers,
		Logger:       log.Default(),
	})
}
