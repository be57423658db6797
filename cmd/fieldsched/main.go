// Command fieldsched serves and inspects the field-service schedule.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "fieldsched",
	Short:         "fieldsched - field-service scheduling calendar",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API with background snapshot refresh",
	RunE:  runServe,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print the calendar for a mode and anchor",
	RunE:  runCalendar,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks matching a filter",
	RunE:  runTasks,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the configured storage",
	RunE:  runMigrate,
}

var importCmd = &cobra.Command{
	Use:   "import <dataset.json>",
	Short: "Replace the stored dataset with the contents of a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var (
	modeFlag     string
	anchorFlag   string
	jsonFlag     bool
	allDatesFlag bool
	sortFlag     string
	typeFlags    []string
	statusFlags  []string
	groupFlags   []string
	navigateFlag int
)

func init() {
	calendarCmd.Flags().StringVarP(&modeFlag, "mode", "m", "month", "Calendar mode: day, week, month or year")
	calendarCmd.Flags().StringVarP(&anchorFlag, "anchor", "a", "", "Date anchor in the mode's format (default: today)")
	calendarCmd.Flags().IntVarP(&navigateFlag, "page", "p", 0, "Periods to page forward (negative pages back)")
	calendarCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of text")

	tasksCmd.Flags().StringVarP(&modeFlag, "mode", "m", "month", "Calendar mode used for the date filter")
	tasksCmd.Flags().StringVarP(&anchorFlag, "anchor", "a", "", "Date anchor in the mode's format (default: today)")
	tasksCmd.Flags().BoolVar(&allDatesFlag, "all-dates", false, "List tasks from every period")
	tasksCmd.Flags().StringVarP(&sortFlag, "sort", "s", "nearest", "Sort order: nearest or farthest")
	tasksCmd.Flags().StringSliceVarP(&typeFlags, "type", "t", nil, "Task types to include")
	tasksCmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Task statuses to include")
	tasksCmd.Flags().StringSliceVarP(&groupFlags, "group", "g", nil, "Team or employee ids to include (unassigned for none)")
	tasksCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of text")

	rootCmd.AddCommand(serveCmd, calendarCmd, tasksCmd, migrateCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fieldsched: %v\n", err)
		os.Exit(1)
	}
}
