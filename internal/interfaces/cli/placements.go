package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

type ledgerOpener func(ctx context.Context, cfg *config.Config, log logging.Logger) (PlacementStore, io.Closer, error)

// PlacementView renders one placement line by line.
type PlacementView struct {
	*order.Placement
}

func (v PlacementView) TableHeaders() []string {
	return []string{"LINE", "PRODUCT", "STATUS", "ORDER ID", "PRICE", "MESSAGE"}
}

func (v PlacementView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Lines))
	for _, l := range v.Lines {
		rows = append(rows, []string{
			l.Result.LineID,
			l.Request.ProductCode,
			string(l.Result.Status),
			l.Result.OrderID,
			strconv.FormatFloat(l.Request.UnitPrice, 'f', 2, 64),
			l.Result.Message,
		})
	}
	return rows
}

func (v PlacementView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "placement %s  matter %s  %s  %s\n",
		v.ID, v.MatterReference, v.Jurisdiction, v.PlacedAt.Format(time.RFC3339))
	counts := v.Counts()
	fmt.Fprintf(&sb, "accepted %d  rejected %d  failed %d\n",
		counts[client.LineAccepted], counts[client.LineRejected], counts[client.LineError])
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	return sb.String()
}

// PlacementSummaries lists placements of one matter.
type PlacementSummaries []*order.Placement

func (s PlacementSummaries) TableHeaders() []string {
	return []string{"ID", "PLACED AT", "JURISDICTION", "LINES", "ACCEPTED"}
}

func (s PlacementSummaries) TableRows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, p := range s {
		rows = append(rows, []string{
			p.ID,
			p.PlacedAt.Format(time.RFC3339),
			string(p.Jurisdiction),
			strconv.Itoa(len(p.Lines)),
			strconv.Itoa(p.Counts()[client.LineAccepted]),
		})
	}
	return rows
}

// NewPlacementsCmd reads the order ledger.
func NewPlacementsCmd(open ledgerOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placements",
		Short: "Inspect recorded order placements",
	}

	show := &cobra.Command{
		Use:   "show <placement-id>",
		Short: "Show one placement with its line outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, open, func(ctx context.Context, store PlacementStore) error {
				p, err := store.GetPlacement(ctx, args[0])
				if err != nil {
					return err
				}
				return PrintResult(cmd, PlacementView{Placement: p})
			})
		},
	}

	var (
		matter string
		limit  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List the placements of a matter, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 100 {
				return errors.InvalidParam("limit must be between 1 and 100").WithDetail(strconv.Itoa(limit))
			}
			return withLedger(cmd, open, func(ctx context.Context, store PlacementStore) error {
				ps, err := store.ListByMatter(ctx, matter, limit)
				if err != nil {
					return err
				}
				if ps == nil {
					ps = []*order.Placement{}
				}
				return PrintResult(cmd, PlacementSummaries(ps))
			})
		},
	}
	list.Flags().StringVar(&matter, "matter", "", "matter reference (required)")
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of placements (1-100)")
	_ = list.MarkFlagRequired("matter")

	cmd.AddCommand(show, list)
	return cmd
}

func withLedger(cmd *cobra.Command, open ledgerOpener, fn func(context.Context, PlacementStore) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	store, closer, err := open(ctx, cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	return fn(ctx, store)
}
