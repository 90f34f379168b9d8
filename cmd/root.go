package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the optimeet application
var rootCmd = &cobra.Command{
	Use:   "optimeet",
	Short: "Finds free meeting slots and keeps notes about your meetings",
	Long: `optimeet finds meeting slots that are free for you and the people you
want to meet, books meetings and keeps notes and agendas for them.

It can run as:
  - A command-line slot finder (slot)
  - An MCP (Model Context Protocol) server for AI assistants (serve)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv(envFile)
	},
}

// version will be set by main
var version = "dev"

// envFile is the dotenv file loaded before any command runs.
var envFile string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "optimeet version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing default file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && path == ".env" {
		return nil
	}
	return godotenv.Load(path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded at startup")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSlotCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
