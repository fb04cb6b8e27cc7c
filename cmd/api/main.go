package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/studypal/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studypal",
		Short: "StudyPal API Server",
		Long:  `StudyPal is a personal study planner with a weekly course schedule, task tracking and an AI study assistant.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewClearCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
