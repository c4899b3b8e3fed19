package cli

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/infrastructure/storage/minio"
	"github.com/turtacn/titleorder/pkg/errors"
)

type archiveOpener func(ctx context.Context, cfg *config.Config, log logging.Logger) (ArchiveLister, io.Closer, error)

// ArchiveListing lists archived payload objects.
type ArchiveListing []minio.ArchivedPayload

func (l ArchiveListing) TableHeaders() []string { return []string{"KEY", "SIZE", "MODIFIED"} }

func (l ArchiveListing) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, p := range l {
		rows = append(rows, []string{p.Key, strconv.FormatInt(p.Size, 10), p.LastModified.UTC().Format(time.RFC3339)})
	}
	return rows
}

// NewArchiveCmd inspects provider payloads that failed to normalize.
func NewArchiveCmd(open archiveOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect archived provider payloads",
	}

	var (
		prefix string
		limit  int
	)
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List archived payloads, optionally under a key prefix (e.g. a jurisdiction)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.InvalidParam("limit must be positive").WithDetail(strconv.Itoa(limit))
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.withTimeout(cmd.Context())
			defer cancel()

			archive, closer, err := open(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			items, err := archive.List(ctx, prefix, limit)
			if err != nil {
				return err
			}
			if items == nil {
				items = []minio.ArchivedPayload{}
			}
			return PrintResult(cmd, ArchiveListing(items))
		},
	}
	ls.Flags().StringVar(&prefix, "prefix", "", "object key prefix")
	ls.Flags().IntVar(&limit, "limit", 50, "maximum number of objects")

	cmd.AddCommand(ls)
	return cmd
}
