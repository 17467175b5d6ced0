package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jatrack/internal/export"
	"jatrack/internal/model"
)

// exportFetchSize is the oversized single page used so an export covers every
// matching record, not just one page.
const exportFetchSize = 1000

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export applications to CSV or PDF",
	}
	cmd.AddCommand(newExportFormatCmd(app, "csv"))
	cmd.AddCommand(newExportFormatCmd(app, "pdf"))
	return cmd
}

func newExportFormatCmd(app *App, format string) *cobra.Command {
	var (
		out    string
		text   string
		status string
	)

	cmd := &cobra.Command{
		Use:   format,
		Short: "Export applications as " + strings.ToUpper(format),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if _, ok := model.ParseStatus(status); !ok {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			pg, err := app.client().List(cmd.Context(), model.Query{
				Text:   strings.TrimSpace(text),
				Status: status,
				Size:   exportFetchSize,
			})
			if err != nil {
				return clientErr(err)
			}

			now := time.Now()
			var data []byte
			switch format {
			case "pdf":
				data, err = export.BuildPDF(pg.Items, export.Columns(), "Job Applications", now)
				if err != nil {
					return err
				}
			default:
				var buf bytes.Buffer
				if err := export.WriteCSV(&buf, pg.Items, export.Columns()); err != nil {
					return err
				}
				data = buf.Bytes()
			}

			if out == "" {
				out = fmt.Sprintf("jatrack-export-%s.%s", now.Format("20060102-150405"), format)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d applications to %s\n", len(pg.Items), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: timestamped name in the current directory)")
	cmd.Flags().StringVar(&text, "q", "", "Free-text filter applied before exporting")
	cmd.Flags().StringVar(&status, "status", "", "Status filter applied before exporting")
	return cmd
}
