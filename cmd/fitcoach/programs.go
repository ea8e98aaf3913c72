package main

import (
	"github.com/2beens/fitcoach/internal/render"

	"github.com/spf13/cobra"
)

var (
	listPage     int
	listSize     int
	refreshFetch bool
)

var programsCmd = &cobra.Command{
	Use:     "programs",
	Aliases: []string{"ls"},
	Short:   "List assigned workout programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		page, err := fitApp.API.FetchProgramList(cmd.Context(), listPage, listSize)
		if err != nil {
			return err
		}
		render.ProgramList(cmd.OutOrStdout(), page)
		return nil
	},
}

var programCmd = &cobra.Command{
	Use:   "program <programID>",
	Short: "Show a workout program outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		program, err := fitApp.LoadProgram(cmd.Context(), args[0], refreshFetch)
		if err != nil {
			return err
		}
		render.Program(cmd.OutOrStdout(), program)
		return nil
	},
}

var exerciseCmd = &cobra.Command{
	Use:   "exercise <programID> <exerciseID>",
	Short: "Show an exercise with its superset and the exercise that follows",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		pos, err := fitApp.ExerciseDetails(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		render.Exercise(cmd.OutOrStdout(), pos)
		return nil
	},
}

func init() {
	programsCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	programsCmd.Flags().IntVar(&listSize, "size", 10, "programs per page")
	programCmd.Flags().BoolVar(&refreshFetch, "refresh", false, "bypass the program cache")
}
