package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"texttide/internal/config"
)

// Cfg is the global variable that will contain the loaded configuration
// It is accessible to all Cobra commands throughout the application
var Cfg *config.Config

// RootCmd is the base command for the CLI application
// All other commands (create, top, run-server, migrate) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "texttide",
	Short: "A text sharing application",
	Long: `TextTide lets you paste text, share the generated link, like shared
snippets and list the most liked ones. Snippets expire 30 days after creation.`,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Load configuration before any command executes. Subcommands register
	// themselves via their own init() functions, which keeps this package
	// free of import cycles.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration at the beginning of every
// command execution, thanks to cobra.OnInitialize above.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
