package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an SNS-triggered AWS Lambda function",
	RunE:  runLambda,
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}

func runLambda(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Clients are built once per execution environment and reused across invocations.
	h, closeClients, err := newHandler(context.Background(), cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeClients()

	logger.Info("Starting Lambda runtime loop")
	lambda.Start(h.HandleLambda)
	return nil
}
