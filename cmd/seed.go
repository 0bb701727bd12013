package cmd

import (
	"fmt"
	"time"

	"github.com/majawitosz/tab-backend/internal/factories"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories/postgres"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with a demo menu and order history",
	RunE: func(cmd *cobra.Command, args []string) error {
		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")
		ordersPerDay, _ := cmd.Flags().GetInt("orders-per-day")
		tables, _ := cmd.Flags().GetInt("tables")
		seed, _ := cmd.Flags().GetInt64("seed")
		reset, _ := cmd.Flags().GetBool("reset")

		r, err := models.ParseDateRange(startDate, endDate)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		seeder := factories.NewSeeder(
			postgres.NewMenuItemRepository(a.pool),
			postgres.NewOrderRepository(a.pool),
			factories.NewFaker(seed),
			a.loc,
			a.log,
		)
		result, err := seeder.Seed(cmd.Context(), factories.SeedOptions{
			Range:        r,
			OrdersPerDay: ordersPerDay,
			Tables:       tables,
			Reset:        reset,
			Progress:     cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nseeded %d orders over %d menu items\n", result.Orders, result.MenuItems)
		return nil
	},
}

func init() {
	now := time.Now()
	seedCmd.Flags().String("start-date", now.AddDate(0, -1, 0).Format(models.DateLayout), "First day of order history")
	seedCmd.Flags().String("end-date", now.Format(models.DateLayout), "Last day of order history")
	seedCmd.Flags().Int("orders-per-day", 40, "Average number of orders per day")
	seedCmd.Flags().Int("tables", 15, "Number of tables in the restaurant")
	seedCmd.Flags().Int64("seed", 42, "Random seed, 0 for a random one")
	seedCmd.Flags().Bool("reset", false, "Delete existing orders first")
	rootCmd.AddCommand(seedCmd)
}
