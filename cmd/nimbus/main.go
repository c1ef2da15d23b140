package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nimbusbot/nimbus/internal/db"
)

var rootCmd = &cobra.Command{
	Use:   "nimbus",
	Short: "Telegram assistant bridging chat to Gemini, web search, and Postgres",
	Long: `Nimbus is a Telegram assistant. It answers prompts through the Gemini
API, describes images, summarizes uploaded documents, searches the web,
and labels text sentiment, recording every interaction in Postgres.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run database migrations and start the assistant",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := db.Migrate(cfg.Postgres); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("migrations applied")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
