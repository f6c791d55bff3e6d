package main

import (
	"fmt"
	"os"

	"github.com/ragengine/console/cmd"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError(err.Error()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rag-engine",
	Short: "RAG Engine console - chat with your documents",
	Long: `RAG Engine console signs you in, manages your knowledge spaces and lets you
chat with the documents in them, from the terminal or in the browser.

Get started:
  rag-engine login
  rag-engine spaces create "Research Notes"
  rag-engine docs upload "Research Notes" paper.pdf
  rag-engine chat "Research Notes"

Or run the web console: rag-engine serve
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		cmd.SetVersion(c, version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.File, "config", "", "config file (default ~/.rag-engine/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.LoginCmd)
	rootCmd.AddCommand(cmd.RegisterCmd)
	rootCmd.AddCommand(cmd.LogoutCmd)
	rootCmd.AddCommand(cmd.ResetPasswordCmd)
	rootCmd.AddCommand(cmd.WhoamiCmd)
	rootCmd.AddCommand(cmd.SpacesCmd)
	rootCmd.AddCommand(cmd.DocsCmd)
	rootCmd.AddCommand(cmd.ChatCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(c *cobra.Command, args []string) {
		fmt.Fprintf(c.OutOrStdout(), "rag-engine version %s\n", version)
	},
}
