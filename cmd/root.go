package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "morgan",
	Short: "Post-call lead analysis service for the Morgan AI demo",
	Long:  "Proxies Tavus conversation calls, receives transcript webhooks, extracts hot-lead reports via Gemini/OpenAI, and fans them out to email, Google Sheets, and Salesforce.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional; real deployments set the environment directly.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
