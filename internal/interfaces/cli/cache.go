package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
)

type cacheOpener func(ctx context.Context, cfg *config.Config, log logging.Logger) (CacheInvalidator, io.Closer, error)

// InvalidationResult reports how many cached payloads were dropped.
type InvalidationResult struct {
	Jurisdiction string `json:"jurisdiction"`
	Removed      int64  `json:"removed"`
}

func (r InvalidationResult) String() string {
	return fmt.Sprintf("%s: %d cached payloads removed\n", r.Jurisdiction, r.Removed)
}

// NewCacheCmd manages the search payload cache.
func NewCacheCmd(open cacheOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate <jurisdiction>",
		Short: "Drop cached search and page payloads of one jurisdiction",
		Long: "Use after a registry reports corrected data, so the next search reaches the\n" +
			"provider instead of the cache.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := catalog.Normalize(args[0])
			if err != nil {
				return err
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.withTimeout(cmd.Context())
			defer cancel()

			cache, closer, err := open(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			n, err := cache.Invalidate(ctx, string(j))
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("search cache invalidated", logging.String("jurisdiction", string(j)), logging.Int64("removed", n))
			return PrintResult(cmd, InvalidationResult{Jurisdiction: string(j), Removed: n})
		},
	})
	return cmd
}
