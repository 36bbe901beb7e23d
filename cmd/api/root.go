package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"context-gateway/internal/httpserver"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "context-gateway",
		Short:        "MCP context gateway",
		Long:         "context-gateway serves the get_context and save_memory MCP tools over Streamable HTTP.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newBackfillCmd(&configPath),
		newVersionCmd(),
	)

	return rootCmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", httpserver.ServiceName, httpserver.HealthVersion)
			return err
		},
	}
}
