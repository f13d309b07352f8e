package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <conversation-id>",
	Short: "Run the lead analysis pipeline for one conversation",
	Long:  "Fetches the transcript for a finished conversation, extracts a lead record, and delivers the report to the configured sinks. Useful for replaying sessions whose webhook was missed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initApp(cmd.Context())
		if err != nil {
			return err
		}

		out := a.pipeline.Run(cmd.Context(), args[0], nil)
		zap.L().Info("analysis complete",
			zap.String("report_id", out.ReportID),
			zap.Bool("skipped", out.Skipped),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
