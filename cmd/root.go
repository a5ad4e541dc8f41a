package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/callsched/internal/config"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var configPath string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "callsched",
		Short:         "Places voice-AI scheduling calls from free-text requests and reports the outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file (environment overrides it)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newStatusCmd())

	return root
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.FromEnv()
	}
	return config.Load(configPath)
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
