package main

import (
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/nutrition"
	"github.com/2beens/fitcoach/internal/render"

	"github.com/spf13/cobra"
)

var (
	calendarYear  int
	calendarMonth int

	nutritionPage int
	nutritionSize int
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the workout calendar for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		now := time.Now()
		year, month := calendarYear, calendarMonth
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
		if month < 1 || month > 12 {
			return fmt.Errorf("invalid month %d", month)
		}

		workouts := fitApp.Calendar.Month(cmd.Context(), year, month)
		render.Calendar(cmd.OutOrStdout(), year, month, fitApp.Calendar.Grid(year, month, now), workouts)
		return nil
	},
}

var nutritionCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "List nutrition plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		page, err := fitApp.Nutrition.List(cmd.Context(), nutritionPage, nutritionSize)
		if err != nil {
			return err
		}
		render.Nutrition(cmd.OutOrStdout(), page)
		return nil
	},
}

func init() {
	calendarCmd.Flags().IntVar(&calendarYear, "year", 0, "year (default current)")
	calendarCmd.Flags().IntVar(&calendarMonth, "month", 0, "month 1-12 (default current)")
	nutritionCmd.Flags().IntVar(&nutritionPage, "page", 1, "page number")
	nutritionCmd.Flags().IntVar(&nutritionSize, "size", nutrition.DefaultPageSize, "plans per page")
}
