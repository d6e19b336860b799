package cli

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mazewars/mazewars-go/internal/client"
	"github.com/mazewars/mazewars-go/internal/model"
)

func newPlayCmd() *cobra.Command {
	var (
		interval time.Duration
		target   string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join the match and play until eliminated",
		Long: `Join the match as the configured username and wander the maze,
printing events as they arrive. With --target set, repeatedly fires
at that player once the match starts.

Runs until you are eliminated, the match ends, or Ctrl+C.`,
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
			out.PrintMessage(fmt.Sprintf("Joined %s as %s", cfg.ServerAddr, cfg.Username))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			var (
				pos     model.Position
				spawned bool
				heading = rand.Float64() * 2 * math.Pi
			)

			for {
				select {
				case <-sigCh:
					out.PrintMessage("Leaving match")
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
					if ev.Type == client.EventMatchOver {
						return nil
					}

				case <-ticker.C:
					self := session.Self()
					if !self.Started || !self.Spawned || self.Dead || self.Finished {
						continue
					}
					if !spawned {
						pos = self.Spawn
						spawned = true
					}

					// Drunken walk: drift the heading, step forward
					heading += (rand.Float64() - 0.5) * 0.6
					pos.X += float32(math.Cos(heading) * 0.4)
					pos.Z += float32(math.Sin(heading) * 0.4)
					rot := model.Rotation{Yaw: float32(heading * 180 / math.Pi)}

					if _, err := session.SendTransform(pos, rot, 0); err != nil {
						return fmt.Errorf("failed to send movement: %w", err)
					}
					if target != "" {
						if _, err := session.Shoot(target); err != nil {
							return fmt.Errorf("failed to shoot: %w", err)
						}
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "Movement update interval")
	cmd.Flags().StringVar(&target, "target", "", "Username to repeatedly fire at")

	return cmd
}
