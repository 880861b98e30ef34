package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "timetabler",
	Short: "timetabler ingests master class and exam timetables and generates personal schedules",
	Long: `Timetabler stores uploaded master timetable JSON files and serves an api
that matches a student's course codes against them to build a personal week`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
