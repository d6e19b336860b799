package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg       *Config
	apiClient *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "mazewars",
		Short: "Command-line client for Maze Wars match servers",
		Long: `mazewars is a command-line client for Maze Wars match servers.

It joins matches over UDP, streams lobby and combat events, and
inspects live and archived matches through the status API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			apiClient = NewClient(cfg.APIURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Game server UDP address (env: MAZEWARS_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.APIURL, "api", cfg.APIURL, "Status API base URL (env: MAZEWARS_API)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Username, "username", "u", cfg.Username, "Username to join matches with (env: MAZEWARS_USERNAME)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newLobbyCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newMatchesCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newKickCmd())

	return rootCmd
}

// cliLogger returns the logger for interactive sessions. Quiet unless
// --verbose is set, so log lines do not interleave with event output.
func cliLogger() *slog.Logger {
	if cfg != nil && cfg.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
