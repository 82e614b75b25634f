package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/member-platform/member-qa/internal/config"
	"github.com/member-platform/member-qa/internal/source"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "member-qa",
	Short: "Question answering over member message data",
	Long:  "Fetches member messages from the upstream feed and answers free-text questions about them via pattern matching; also profiles the dataset for schema anomalies.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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

// newSourceClient builds the message source client from config.
func newSourceClient() *source.Client {
	return source.NewClient(source.Options{
		URL:       cfg.Source.URL,
		UserAgent: cfg.Source.UserAgent,
		Timeout:   time.Duration(cfg.Source.TimeoutSecs) * time.Second,
		RateLimit: rate.Limit(cfg.Source.RateLimit),
	})
}
