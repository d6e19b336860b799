package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matches [id]",
		Short: "List archived matches, or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if len(args) == 1 {
				var result ArchivedMatch

				if err := apiClient.Get(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
					return err
				}

				out.Print(result)
				return nil
			}

			var result []ArchivedMatch

			if err := apiClient.Get("/api/v1/matches", &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
