package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
)

const pageSize = 500

var headerStyle = lipgloss.NewStyle().Bold(true)

func newListCmd(open Opener) *cobra.Command {
	var params dto.ListParams
	var status string

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if status != "" {
				params.Status = []string{status}
			}
			params.Limit = pageSize
			return withContainer(cmd, open, func(c *portssvc.ServiceContainer) error {
				var t *table.Table
				switch kind {
				case domain.KindExpenses:
					t, err = listTable(cmd.Context(), c.Expense, params,
						[]string{"Description", "Amount", "Category", "Date"},
						func(f domain.ExpenseFields) []string {
							return []string{f.Description, f.Amount.StringFixed(2), f.Category, f.Date.Format(dto.DateLayout)}
						})
				case domain.KindProjects:
					t, err = listTable(cmd.Context(), c.Project, params,
						[]string{"Name", "Category", "Budget", "Funding", "Start"},
						func(f domain.ProjectFields) []string {
							return []string{f.Name, f.Category, f.Budget.StringFixed(2), f.Funding.StringFixed(2), f.StartDate.Format(dto.DateLayout)}
						})
				case domain.KindEvents:
					t, err = listTable(cmd.Context(), c.Event, params,
						[]string{"Title", "Category", "Starts", "Seats"},
						func(f domain.EventFields) []string {
							return []string{f.Title, f.Category, f.StartsAt.Format("2006-01-02 15:04"), seats(f)}
						})
				case domain.KindTasks:
					t, err = listTable(cmd.Context(), c.Task, params,
						[]string{"Title", "Priority", "Assignee", "Due"},
						func(f domain.TaskFields) []string {
							due := ""
							if f.DueDate != nil {
								due = f.DueDate.Format(dto.DateLayout)
							}
							return []string{f.Title, f.Priority, f.Assignee, due}
						})
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return err
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only records with this status (comma separated for several)")
	cmd.Flags().StringVar(&params.Category, "category", "", "only records in this category (priority for tasks)")
	cmd.Flags().StringVar(&params.Q, "q", "", "case-insensitive text search")
	cmd.Flags().StringVar(&params.From, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.To, "to", "", "inclusive end date (YYYY-MM-DD)")
	return cmd
}

func seats(f domain.EventFields) string {
	if f.Capacity == 0 {
		return fmt.Sprintf("%d/unlimited", f.Registered)
	}
	return fmt.Sprintf("%d/%d", f.Registered, f.Capacity)
}

// listTable walks every page of svc and renders one row per record.
func listTable[F, C, U, S any](
	ctx context.Context,
	svc portssvc.RecordSvcFacade[F, C, U, S],
	params dto.ListParams,
	headers []string,
	row func(F) []string,
) (*table.Table, error) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers(append([]string{"ID", "Status"}, headers...)...)

	for {
		records, next, err := svc.ListRecords(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			t.Row(append([]string{r.ID, string(r.Status)}, row(r.Fields)...)...)
		}
		if next == "" {
			return t, nil
		}
		params.NextToken = next
	}
}

func newSummaryCmd(open Opener) *cobra.Command {
	var params dto.ListParams

	cmd := &cobra.Command{
		Use:   "summary <kind>",
		Short: "Print the dashboard summary of a kind as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd, open, func(c *portssvc.ServiceContainer) error {
				ctx := cmd.Context()
				var summary any
				switch kind {
				case domain.KindExpenses:
					summary, err = c.Expense.Summary(ctx, params)
				case domain.KindProjects:
					summary, err = c.Project.Summary(ctx, params)
				case domain.KindEvents:
					summary, err = c.Event.Summary(ctx, params)
				case domain.KindTasks:
					summary, err = c.Task.Summary(ctx, params)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}

	cmd.Flags().StringVar(&params.Category, "category", "", "only records in this category")
	cmd.Flags().StringVar(&params.From, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.To, "to", "", "inclusive end date (YYYY-MM-DD)")
	return cmd
}

func newImportCmd(open Opener) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "import <kind> <file.csv>",
		Short: "Create records from a CSV file",
		Long: `Creates one record per valid CSV row. Rejected rows are listed with their
line number and the command exits non-zero when any row was rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			return withContainer(cmd, open, func(c *portssvc.ServiceContainer) error {
				ctx := cmd.Context()
				var resp *dto.ImportResponse
				switch kind {
				case domain.KindExpenses:
					resp, err = c.Expense.ImportCSV(ctx, f, userID)
				case domain.KindProjects:
					resp, err = c.Project.ImportCSV(ctx, f, userID)
				case domain.KindEvents:
					resp, err = c.Event.ImportCSV(ctx, f, userID)
				case domain.KindTasks:
					resp, err = c.Task.ImportCSV(ctx, f, userID)
				}
				if err != nil {
					return err
				}
				return reportImport(cmd.OutOrStdout(), kind, resp)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "hubctl", "actor recorded in createdBy")
	return cmd
}

func reportImport(w io.Writer, kind domain.Kind, resp *dto.ImportResponse) error {
	fmt.Fprintf(w, "Imported %d %s\n", resp.Created, kind)
	if len(resp.Errors) == 0 {
		return nil
	}
	for _, e := range resp.Errors {
		msg := e.Reason
		if e.Field != "" {
			msg = fmt.Sprintf("%s: %s (%q)", e.Field, e.Reason, e.Value)
		}
		fmt.Fprintf(w, "  line %d: %s\n", e.Line, msg)
	}
	return fmt.Errorf("%d rows rejected", len(resp.Errors))
}

func newCatalogCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show statuses and categories per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, open, func(c *portssvc.ServiceContainer) error {
				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("Kind", "Default", "Statuses", "Categories")
				for _, k := range domain.Kinds {
					kc := c.Catalog[k]
					t.Row(string(k), string(kc.DefaultStatus),
						strings.Join(kc.Statuses.Strings(), ", "),
						strings.Join(kc.Categories, ", "))
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return err
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
