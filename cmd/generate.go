package cmd

import (
	"fmt"

	"github.com/majawitosz/tab-backend/internal/api/dto"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Generate a report and print its URL",
	Example: `  tab-backend generate --start-date 2024-03-01 --end-date 2024-03-31 --filter-by dish_income`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.GenerateReportRequest{}
		req.StartDate, _ = cmd.Flags().GetString("start-date")
		req.EndDate, _ = cmd.Flags().GetString("end-date")
		req.FilterBy, _ = cmd.Flags().GetString("filter-by")

		genReq, err := req.Validate()
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

		url, err := a.reportService().Generate(cmd.Context(), genReq)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("start-date", "", "First day of the report (YYYY-MM-DD)")
	generateCmd.Flags().String("end-date", "", "Last day of the report (YYYY-MM-DD)")
	generateCmd.Flags().String("filter-by", "overall_income", "Metric: overall_income, dish_popularity or dish_income")
	rootCmd.AddCommand(generateCmd)
}
