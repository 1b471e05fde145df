package cmd

import (
	"os"

	"blog-server/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X blog-server/cmd.Version=..."
var Version = "development"

var port string

// RootCmd runs the server when called without a subcommand
var RootCmd = &cobra.Command{
	Use:   `blog-server [command] [flags]`,
	Short: "A small blog: list posts, add posts",
	Args:  cobra.NoArgs,
	Run:   serve,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Error("Error executing command", "err", err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config", "err", err)
	}

	if port != "" {
		cfg.Port = port
	}

	return cfg
}
