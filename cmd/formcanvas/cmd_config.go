package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcanvas/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the formcanvas config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Write(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
