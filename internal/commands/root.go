// Package commands implements the relay command line.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/submission-relay/internal/config"
	"github.com/telhawk-systems/submission-relay/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Submission archive relay",
	Long: `relay receives assignment submissions, downloads the linked release
archive, stores it in object storage, emails the submitter and records the
delivery status.

Run it as an AWS Lambda function, as a NATS queue worker, or replay a
single SNS event from a file.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or /etc/relay/config.yaml)")
}

// loadConfig reads configuration and installs the default logger writing to
// logOut. Commands that print results keep logs off stdout.
func loadConfig(logOut io.Writer) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewWithWriter(
		logOut,
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("submission-relay"))
	logging.SetDefault(logger)

	return cfg, logger, nil
}
