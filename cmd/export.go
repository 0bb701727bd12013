package cmd

import (
	"fmt"
	"strings"

	"github.com/majawitosz/tab-backend/internal/reporting"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <report-id>",
	Short: "Export the data series of a stored report as csv or parquet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := reporting.ParseExportFormat(formatFlag)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.withReporting(cmd.Context()); err != nil {
			return err
		}

		report, err := a.reportService().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if output == "" {
			output = strings.TrimSuffix(report.FileName, ".pdf") + "." + string(format)
		}
		if err := reporting.ExportFile(output, format, report.Series); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(report.Series), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "Output format: csv or parquet")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default derived from the report file name)")
	rootCmd.AddCommand(exportCmd)
}
