package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
)

type eventsOpener func(cfg *config.Config, group string, log logging.Logger) (EventSource, error)

// NewEventsCmd follows the order event topic.
func NewEventsCmd(open eventsOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow order events published after placement",
	}

	var (
		group string
		limit int
	)
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print line-placed events as they arrive",
		Long: "Reads the line-placed topic in its own consumer group and prints one line per\n" +
			"event (JSON with -o json).  Stops on Ctrl-C or after --limit events.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if group == "" {
				group = fmt.Sprintf("titleorder-tail-%d", time.Now().Unix())
			}
			src, err := open(cliCtx.Config, group, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			var seen atomic.Int64
			return src.Run(ctx, func(_ context.Context, env *kafka.EventEnvelope) error {
				if err := printEvent(cmd, cliCtx.OutputFormat, env); err != nil {
					return err
				}
				if limit > 0 && seen.Add(1) >= int64(limit) {
					cancel()
				}
				return nil
			})
		},
	}
	tail.Flags().StringVar(&group, "group", "", "consumer group (default: a fresh group per run)")
	tail.Flags().IntVar(&limit, "limit", 0, "stop after this many events (0 = follow)")

	cmd.AddCommand(tail)
	return cmd
}

func printEvent(cmd *cobra.Command, format string, env *kafka.EventEnvelope) error {
	out := cmd.OutOrStdout()
	if format == "json" {
		return json.NewEncoder(out).Encode(env)
	}
	if env.EventType != kafka.EventTypeLinePlaced {
		fmt.Fprintf(out, "%s  %s  %s\n", env.Timestamp.Format(time.RFC3339), env.EventType, env.EventID)
		return nil
	}
	var e order.LinePlacedEvent
	if err := env.DecodePayload(&e); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s  %s  matter=%s  %s  %s  order=%s\n",
		env.Timestamp.Format(time.RFC3339), env.EventType, e.MatterReference, e.Jurisdiction, e.ProductCode, e.OrderID)
	return nil
}
