package cli

import (
	"factboard/internal/model"

	"github.com/spf13/cobra"
)

type categoriesPayload struct {
	Data []model.Category `json:"data"`
}

func (p categoriesPayload) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(p.Data))
	for _, c := range p.Data {
		rows = append(rows, []string{c.Name, c.Color})
	}
	return []string{"name", "color"}, rows
}

func newCategoriesCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the fact categories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Format == "" {
				a.Format = envOr("FACTBOARD_FORMAT", "json")
			}
			return writeOut(cmd, a, categoriesPayload{Data: model.Categories()})
		},
	}
}
