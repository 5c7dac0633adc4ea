package commands

import (
	"context"
	"fmt"
	"os"

	"leaders-scraper/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "leaders-cli",
	Short: "leaders-cli scrapes world leaders and the lead paragraph of their wikipedia page.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "leaders.json5", "The config file to look for, searched from the cwd upwards.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug reports.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
