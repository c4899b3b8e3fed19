package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/validation"
	"github.com/turtacn/titleorder/pkg/errors"
)

// ValidationResult reports field failures keyed by field label.
type ValidationResult struct {
	Product string            `json:"product,omitempty"`
	Valid   bool              `json:"valid"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (r ValidationResult) TableHeaders() []string { return []string{"FIELD", "MESSAGE"} }

func (r ValidationResult) TableRows() [][]string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, r.Fields[k]})
	}
	return rows
}

func (r ValidationResult) String() string {
	if r.Valid {
		return "valid\n"
	}
	var sb strings.Builder
	for _, row := range r.TableRows() {
		fmt.Fprintf(&sb, "%s: %s\n", row[0], row[1])
	}
	return sb.String()
}

// errInvalidInput makes the exit status non-zero once the failures have been
// printed.
var errInvalidInput = errors.Validation("input is not valid")

// NewValidateCmd checks one field value, or a whole search form with the
// criteria subcommand.
func NewValidateCmd() *cobra.Command {
	var (
		product  string
		field    string
		value    string
		required bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a search field value against the rules of a product",
		Example: "  titleorder validate --product NSW-TITLE --field \"Folio Identifier\" --value 1/SP12345\n" +
			"  titleorder validate criteria --product NSW-ADDRESS --set \"Street Name=PITT\" --set Suburb=SYDNEY",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := catalog.Default().Product(catalog.ProductCode(strings.ToUpper(product)))
			if err != nil {
				return err
			}
			def, ok := p.Field(field)
			if !ok {
				return errors.InvalidParam("product has no such field").WithDetail(fmt.Sprintf("%s: %q", p.Code, field))
			}
			if !cmd.Flags().Changed("required") {
				required = def.Required
			}
			res := ValidationResult{Product: string(p.Code), Valid: true}
			if msg := validation.Default().Validate(p.Code, def.Label, value, required); msg != "" {
				res.Valid = false
				res.Fields = map[string]string{def.Label: msg}
			}
			return report(cmd, res)
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "product code, e.g. NSW-TITLE (required)")
	cmd.Flags().StringVar(&field, "field", "", "field label, e.g. \"Folio Identifier\"")
	cmd.Flags().StringVar(&value, "value", "", "value to check")
	cmd.Flags().BoolVar(&required, "required", false, "treat an empty value as missing (default: the product's own setting)")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("field")

	cmd.AddCommand(newValidateCriteriaCmd())
	return cmd
}

func newValidateCriteriaCmd() *cobra.Command {
	var (
		product string
		pairs   []string
	)
	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "Validate a complete search form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := catalog.Default().Product(catalog.ProductCode(strings.ToUpper(product)))
			if err != nil {
				return err
			}
			criteria, err := parseCriteria(pairs)
			if err != nil {
				return err
			}
			failures := validation.Default().ValidateCriteria(p, criteria)
			res := ValidationResult{Product: string(p.Code), Valid: len(failures) == 0}
			if !res.Valid {
				res.Fields = failures
			}
			return report(cmd, res)
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "product code (required)")
	cmd.Flags().StringArrayVar(&pairs, "set", nil, "field value as \"Label=value\"; repeatable")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

// parseCriteria turns "Label=value" pairs into a criteria map.  The value may
// itself contain '='.
func parseCriteria(pairs []string) (map[string]string, error) {
	criteria := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		label, value, ok := strings.Cut(pair, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, errors.InvalidParam("criteria must be given as Label=value").WithDetail(pair)
		}
		criteria[label] = value
	}
	return criteria, nil
}

func report(cmd *cobra.Command, res ValidationResult) error {
	if err := PrintResult(cmd, res); err != nil {
		return err
	}
	if !res.Valid {
		return errInvalidInput
	}
	return nil
}
