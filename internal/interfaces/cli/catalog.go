package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

// JurisdictionRow is one line of `titleorder catalog`.
type JurisdictionRow struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	Products int      `json:"products"`
}

// JurisdictionList renders as a table in text and table mode.
type JurisdictionList []JurisdictionRow

func (l JurisdictionList) TableHeaders() []string { return []string{"CODE", "NAME", "PRODUCTS"} }

func (l JurisdictionList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, j := range l {
		rows = append(rows, []string{j.Code, j.Name, strconv.Itoa(j.Products)})
	}
	return rows
}

// ProductList is the product menu of one jurisdiction.
type ProductList []catalog.SearchProduct

func (l ProductList) TableHeaders() []string {
	return []string{"#", "CODE", "SEARCH TYPE", "FULFILMENT", "LABEL", "FIELDS"}
}

func (l ProductList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for i, p := range l {
		fields := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			label := f.Label
			if f.Required {
				label += "*"
			}
			fields = append(fields, label)
		}
		fulfilment := string(p.Fulfilment)
		if p.Unavailable {
			fulfilment += " (unavailable)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i), string(p.Code), string(p.SearchTypeID), fulfilment, p.Label, strings.Join(fields, ", "),
		})
	}
	return rows
}

// NewCatalogCmd lists jurisdictions, or the products of one jurisdiction.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [jurisdiction]",
		Short: "List jurisdictions or the search products of one jurisdiction",
		Long: "Without an argument, lists every jurisdiction with its product count.\n" +
			"With a jurisdiction code or alias (e.g. NSW, \"new south wales\"), lists its products\n" +
			"in menu order.  Required fields are marked with *.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.Default()
			if len(args) == 0 {
				return PrintResult(cmd, listJurisdictions(c))
			}
			j, err := catalog.Normalize(args[0])
			if err != nil {
				return err
			}
			products := c.ProductsFor(j)
			if len(products) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s has no search products\n", j)
			}
			return PrintResult(cmd, ProductList(products))
		},
	}
}

func listJurisdictions(c catalog.Catalog) JurisdictionList {
	infos := catalog.Jurisdictions()
	out := make(JurisdictionList, 0, len(infos))
	for _, info := range infos {
		out = append(out, JurisdictionRow{
			Code:     string(info.Code),
			Name:     info.Name,
			Aliases:  catalog.Aliases(info.Code),
			Products: len(c.ProductsFor(info.Code)),
		})
	}
	return out
}
