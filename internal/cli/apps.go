package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jatrack/internal/api"
	"jatrack/internal/model"
)

func newAppsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Scriptable access to job applications",
	}
	cmd.AddCommand(newAppsListCmd(app))
	cmd.AddCommand(newAppsAddCmd(app))
	cmd.AddCommand(newAppsDeleteCmd(app))
	return cmd
}

// listOutput is the JSON shape printed by `apps list`: the page plus the
// echoed query, so scripts can page without re-deriving state.
type listOutput struct {
	Items         []model.Application `json:"items"`
	Page          int                 `json:"page"`
	Size          int                 `json:"size"`
	TotalElements int64               `json:"totalElements"`
	TotalPages    int                 `json:"totalPages"`
}

func newAppsListCmd(app *App) *cobra.Command {
	var (
		text   string
		status string
		sort   string
		page   int
		size   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if _, ok := model.ParseStatus(status); !ok {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			pg, err := app.client().List(cmd.Context(), model.Query{
				Text:   strings.TrimSpace(text),
				Status: status,
				Sort:   sort,
				Page:   page,
				Size:   size,
			})
			if err != nil {
				return clientErr(err)
			}

			out := listOutput{
				Items:         pg.Items,
				Page:          pg.Page,
				Size:          pg.Size,
				TotalElements: pg.TotalElements,
				TotalPages:    pg.TotalPages,
			}
			if out.Items == nil {
				out.Items = []model.Application{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&text, "q", "", "Free-text search across company, role and notes")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (APPLIED, HR_SCREEN, TECH_TEST, INTERVIEW, OFFER, REJECTED)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort, e.g. appliedDate,desc")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (default: configured page size)")
	return cmd
}

func newAppsAddCmd(app *App) *cobra.Command {
	var a model.Application
	var status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an application",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := model.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			a.Status = st
			if err := a.Validate(); err != nil {
				return err
			}
			created, err := app.client().Create(cmd.Context(), a)
			if err != nil {
				return clientErr(err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(created)
		},
	}

	cmd.Flags().StringVar(&a.Company, "company", "", "Company name (required)")
	cmd.Flags().StringVar(&a.RoleTitle, "role", "", "Role title (required)")
	cmd.Flags().StringVar(&status, "status", string(model.StatusApplied), "Pipeline status")
	cmd.Flags().StringVar(&a.AppliedDate, "applied", "", "Applied date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&a.ContactEmail, "contact", "", "Contact email")
	cmd.Flags().StringVar(&a.JobURL, "url", "", "Job posting URL")
	cmd.Flags().StringVar(&a.Notes, "notes", "", "Notes (markdown)")
	return cmd
}

func newAppsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := app.client().Delete(cmd.Context(), id); err != nil {
				return clientErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
			return nil
		},
	}
}

func clientErr(err error) error {
	if errors.Is(err, api.ErrNoCredential) {
		return errors.New("not signed in; run `jatrack login` first")
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return errors.New("token rejected; run `jatrack login` again")
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Body != "" {
		return errors.New(reqErr.Body)
	}
	return err
}
