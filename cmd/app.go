/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the timetabler service",
	Long: `The timetabler service is a json server for master timetable management
and personal schedule generation (this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}
