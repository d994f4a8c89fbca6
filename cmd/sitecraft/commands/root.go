// Package commands provides the CLI commands for SiteCraft.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs    bool
	logLevel     string
	serverURL    string
	configPath   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sitecraft",
	Short: "SiteCraft - AI website builder",
	Long: `SiteCraft turns a short description into a complete, single-file website.

Log in with 'sitecraft auth login', create a project with
'sitecraft project create', then run 'sitecraft generate <id>'.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "Output format (table|json|yaml)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("sitecraft %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mockServerCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// PrintError writes err to w in red, using the user-facing message.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, types.UserMessage(err))
}
