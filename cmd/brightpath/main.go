package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/brightpath/cmd/brightpath/commands"
)

var rootCmd = &cobra.Command{
	Use:   "brightpath",
	Short: "Track your job applications",
	Long: `brightpath - keep track of job applications from the terminal.

Applications are kept locally (persistence.strategy = local) or on the
brightpath backend (persistence.strategy = remote).

Examples:
  brightpath add --company TechCorp --position "Frontend Developer"
  brightpath list --status interview
  brightpath edit <id> --status accepted
  brightpath delete <id>
  brightpath ai cover-letter --company TechCorp --position Developer`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&commands.ConfigFile, "config", "", "Config file (default ./brightpath.toml or ~/.brightpath/brightpath.toml)")
	rootCmd.PersistentFlags().StringVar(&commands.EnvFile, "env-file", "", "Environment file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&commands.Verbose, "verbose", "v", false, "Debug logging and full error causes")

	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.AddCmd)
	rootCmd.AddCommand(commands.EditCmd)
	rootCmd.AddCommand(commands.DeleteCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.AICmd)
	rootCmd.AddCommand(commands.InboxCmd)
	rootCmd.AddCommand(commands.AuthCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
