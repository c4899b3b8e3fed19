package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/domain/validation"
)

// NewMatterCmd checks a matter reference the way every search does before it
// is sent.
func NewMatterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matter <reference>",
		Short: "Validate a matter reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := ValidationResult{Valid: true}
			if msg := validation.ValidateMatter(args[0]); msg != "" {
				res.Valid = false
				res.Fields = map[string]string{"matterReference": msg}
			}
			return report(cmd, res)
		},
	}
}
