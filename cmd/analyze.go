package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/member-platform/member-qa/internal/report"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Profile the message dataset for schema anomalies",
	Long:  "Fetches the full message set, computes field-presence, type-drift, emptiness and duplicate statistics, prints a report and writes the findings to a JSON file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := newSourceClient()

		zap.L().Info("fetching messages", zap.String("url", cfg.Source.URL))
		records, err := client.Fetch(ctx)
		if err != nil {
			return eris.Wrap(err, "fetch messages")
		}
		if len(records) == 0 {
			return eris.New("no messages found")
		}

		zap.L().Info("analyzing messages", zap.Int("count", len(records)))
		findings := report.Analyze(records)

		fmt.Print(report.Render(findings))

		out := analyzeOutput
		if out == "" {
			out = cfg.Report.OutputPath
		}
		if err := report.WriteJSON(findings, out); err != nil {
			return err
		}
		fmt.Printf("\nDetailed findings saved to %s\n", out)

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "findings output path (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
