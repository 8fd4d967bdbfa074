package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
	titleDomain "github.com/mateusmacedo/go-transit/internal/title/domain"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list [persons|titles|complaints]",
		Short:     "Print the stored collections",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"persons", "titles", "complaints"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("list: creating logger: %w", err)
			}

			app, err := newApplication(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			defer func() { _ = app.Close() }()

			out := cmd.OutOrStdout()
			switch args[0] {
			case "persons":
				return listPersons(cmd, out, app)
			case "titles":
				return listTitles(cmd, out, app)
			default:
				return listComplaints(cmd, out, app)
			}
		},
	}
	return cmd
}

func listPersons(cmd *cobra.Command, out io.Writer, app *application) error {
	persons := app.persons.Service().GetAll(cmd.Context())
	for i, p := range persons {
		fmt.Fprintf(out, "[%d] %s %s (%s)\n", i+1, p.Kind, p.FullName(), p.ID)
		born := "unknown"
		if p.HasBirthDate() {
			born = codec.FormatDate(p.BirthDate)
		}
		fmt.Fprintf(out, "    born %s | handicap: %t", born, p.HasHandicap)
		if p.Employee != nil {
			fmt.Fprintf(out, " | matricule %s | %s", p.Employee.Matricule, p.Employee.Function.Label())
		}
		fmt.Fprintln(out)
	}
	if len(persons) == 0 {
		fmt.Fprintln(out, "No persons found.")
	}
	return nil
}

func listTitles(cmd *cobra.Command, out io.Writer, app *application) error {
	service := app.titles.Service()
	titles := service.GetAll(cmd.Context())
	for _, t := range titles {
		fmt.Fprintf(out, "[%d] %s %d | %s | person %s | %s",
			t.SequenceID, t.Kind, t.Price, codec.FormatDateTime(t.PurchasedAt), t.PersonID, service.State(t))
		if t.Kind == titleDomain.KindPersonalCard && t.Card != nil {
			fmt.Fprintf(out, " | %s", t.Card.Tier.Label())
		}
		fmt.Fprintln(out)
	}
	if len(titles) == 0 {
		fmt.Fprintln(out, "No titles found.")
	}
	return nil
}

func listComplaints(cmd *cobra.Command, out io.Writer, app *application) error {
	complaints := app.complaints.Service().GetAll(cmd.Context())
	for _, c := range complaints {
		fmt.Fprintf(out, "[%s] %s | %s | %s\n", c.Status.Label(), codec.FormatDateTime(c.FiledAt), c.Category.Label(), c.ID)
		fmt.Fprintf(out, "    %s\n", c.Description)
		if c.Status != domain.StatusFiled && c.Response != nil {
			fmt.Fprintf(out, "    -> %s\n", *c.Response)
		}
	}
	if len(complaints) == 0 {
		fmt.Fprintln(out, "No complaints found.")
	}
	return nil
}
