package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <username>",
		Short: "Remove a player from the live match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			if err := apiClient.Post("/api/v1/match/kick", map[string]string{"username": username}, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Kicked %s", username))
			return nil
		},
	}
}
