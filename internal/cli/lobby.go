package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mazewars/mazewars-go/internal/client"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Wait in the lobby and watch it fill up",
		Long: `Join the match as the configured username and print lobby
updates as players arrive. Exits once the match starts or on Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireUsername(); err != nil {
				return err
			}

			session, err := client.Dial(cfg.ServerAddr, cfg.Username, cliLogger())
			if err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}
			defer func() { _ = session.Close() }()

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Waiting in lobby at %s as %s", cfg.ServerAddr, cfg.Username))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			for {
				select {
				case <-sigCh:
					out.PrintMessage("Leaving lobby")
					return nil
				case ev, ok := <-session.Events():
					if !ok {
						return nil
					}
					if ev.Type == client.EventJoinRejected {
						if p, isReject := ev.Payload.(client.JoinRejectedPayload); isReject {
							return fmt.Errorf("join rejected: %s", p.Message)
						}
						return fmt.Errorf("join rejected")
					}
					out.PrintEvent(ev)
					if ev.Type == client.EventMatchStarted {
						return nil
					}
				}
			}
		},
	}

	return cmd
}
