package cli

import (
	"fmt"
	"strconv"
	"strings"

	"factboard/internal/app"
	"factboard/internal/model"

	"github.com/spf13/cobra"
)

// factsPayload is the envelope for commands returning several facts.
type factsPayload struct {
	Data []model.Fact `json:"data"`
	Meta factsMeta    `json:"meta"`
}

type factsMeta struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Message  string `json:"message"`
}

func (p factsPayload) Table() ([]string, [][]string) {
	return factHeaders, factRows(p.Data)
}

// factPayload is the envelope for commands returning one fact.
type factPayload struct {
	Data model.Fact `json:"data"`
}

func (p factPayload) Table() ([]string, [][]string) {
	return factHeaders, factRows([]model.Fact{p.Data})
}

var factHeaders = []string{"id", "text", "category", "mindblowing", "interesting", "false", "disputed", "source"}

func factRows(facts []model.Fact) [][]string {
	rows := make([][]string, 0, len(facts))
	for _, f := range facts {
		disputed := ""
		if f.Disputed() {
			disputed = "⚠️"
		}
		rows = append(rows, []string{
			strconv.FormatInt(f.ID, 10),
			f.Text,
			f.Category,
			strconv.Itoa(f.VotesMindblowing),
			strconv.Itoa(f.VotesInteresting),
			strconv.Itoa(f.VotesFalse),
			disputed,
			f.Source,
		})
	}
	return rows
}

func newFactsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "facts",
		Aliases: []string{"fact"},
		Short:   "List, share and vote on facts",
	}
	cmd.AddCommand(newFactsListCmd(a))
	cmd.AddCommand(newFactsShowCmd(a))
	cmd.AddCommand(newFactsAddCmd(a))
	cmd.AddCommand(newFactsVoteCmd(a))
	return cmd
}

func newFactsListCmd(a *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List facts, most interesting first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category = strings.ToLower(strings.TrimSpace(category))
			if !model.IsCategorySelector(category) {
				return writeErr(cmd, errNotFound("category", category))
			}
			ctrl, _, err := a.newController(cmd.Context(), app.WithCategory(category))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := ctrl.FetchFacts(cmd.Context()); err != nil {
				return writeErr(cmd, fmt.Errorf("%s: %w", app.FetchAlert, err))
			}
			st := ctrl.State()
			msg := app.FactCountMessage(len(st.Facts))
			if len(st.Facts) == 0 {
				msg = app.EmptyListMessage
			}
			return writeOut(cmd, a, factsPayload{
				Data: st.Facts,
				Meta: factsMeta{Category: st.CurrentCategory, Count: len(st.Facts), Message: msg},
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", model.AllCategories, "Category filter (all|"+strings.Join(categoryNames(), "|")+")")
	return cmd
}

func newFactsShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one fact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.lookupFact(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, factPayload{Data: f})
		},
	}
}

func newFactsAddCmd(a *App) *cobra.Command {
	var text, source, category string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Share a new fact",
		Example: strings.TrimSpace(`
factboard facts add --text "Lisbon is the capital of Portugal" --source https://en.wikipedia.org/wiki/Lisbon --category society
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nf := model.NewFact{
				Text:     text,
				Source:   strings.TrimSpace(source),
				Category: strings.ToLower(strings.TrimSpace(category)),
			}
			// The boards drop invalid input silently; a script needs the reason.
			if err := model.ValidateNewFact(nf); err != nil {
				return writeErr(cmd, err)
			}
			ctrl, _, err := a.newController(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, submitted := ctrl.Submit(cmd.Context(), nf)
			if !submitted {
				return writeErr(cmd, model.ErrInvalidFact)
			}
			if !res.OK() {
				return writeErr(cmd, res.Err)
			}
			return writeOut(cmd, a, factPayload{Data: res.Value})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", fmt.Sprintf("Fact text (max %d characters)", model.MaxFactTextLen))
	cmd.Flags().StringVar(&source, "source", "", "Trustworthy source (http/https URL)")
	cmd.Flags().StringVar(&category, "category", "", "Category ("+strings.Join(categoryNames(), "|")+")")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newFactsVoteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <id> <interesting|mindblowing|false>",
		Short: "Vote on a fact",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{"interesting", "mindblowing", "false"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := model.ParseVoteColumn(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, f, err := a.lookupFact(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := ctrl.Vote(cmd.Context(), f, col)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !res.OK() {
				return writeErr(cmd, res.Err)
			}
			return writeOut(cmd, a, factPayload{Data: res.Value})
		},
	}
}

// lookupFact loads the board and finds fact id in it.
func (a *App) lookupFact(cmd *cobra.Command, rawID string) (*app.Controller, model.Fact, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		return nil, model.Fact{}, fmt.Errorf("invalid fact id: %q", rawID)
	}
	ctrl, _, err := a.newController(cmd.Context())
	if err != nil {
		return nil, model.Fact{}, err
	}
	if err := ctrl.FetchFacts(cmd.Context()); err != nil {
		return nil, model.Fact{}, fmt.Errorf("%s: %w", app.FetchAlert, err)
	}
	f, ok := ctrl.FindFact(id)
	if !ok {
		return nil, model.Fact{}, errNotFound("fact", rawID)
	}
	return ctrl, f, nil
}

func categoryNames() []string {
	cats := model.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out
}
