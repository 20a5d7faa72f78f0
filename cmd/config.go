package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the portdash config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Path())
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Write a config file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Reset(); err != nil {
			return err
		}
		fmt.Printf("wrote defaults to %s\n", config.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}
