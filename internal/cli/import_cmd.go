package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/legoplanner/legoplanner/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import projects, assignees and assignments from JSON or YAML",
		Long: `Import projects, assignees and assignments from a JSON or YAML file.

The whole file is validated first and written in one transaction, so a bad
file changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects, %d assignees, %d assignments\n",
				len(result.Projects), len(result.Assignees), result.Assignments)
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var formatStr string
	var all bool

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export everything in the import format",
		Long: `Export projects, assignees and assignments in the import format.

Without FILE the document is written to stdout. Consecutive weeks with the
same allocation are collapsed into from/to ranges.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := importer.FormatJSON
			switch {
			case formatStr != "":
				f, err := importer.ParseFormat(formatStr)
				if err != nil {
					return err
				}
				format = f
			case len(args) == 1:
				format = importer.FormatForPath(args[0])
			}

			var buf bytes.Buffer
			if err := app.Import.Export(cmd.Context(), &buf, format, all); err != nil {
				return err
			}
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "", "json or yaml (default from the file extension)")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}
