package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/submission-relay/internal/consumer"
	"github.com/telhawk-systems/submission-relay/internal/messaging"
	natsclient "github.com/telhawk-systems/submission-relay/internal/messaging/nats"
	"github.com/telhawk-systems/submission-relay/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Consume submissions from a NATS queue group",
	Long: `Runs a long-lived worker that joins the NATS queue group and relays
each submission message. Health, readiness and Prometheus metrics are
served over HTTP.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	natsCfg := natsclient.DefaultConfig()
	natsCfg.URL = cfg.NATS.URL
	client, err := natsclient.NewClient(natsCfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	var publisher messaging.Publisher
	if cfg.NATS.PublishOutcomes {
		publisher = client
	}

	h, closeClients, err := newHandler(ctx, cfg, logger, publisher)
	if err != nil {
		return err
	}
	defer closeClients()

	c := consumer.New(client, h, cfg.NATS.Subject, cfg.NATS.Queue, logger)
	if err := c.Start(ctx); err != nil {
		return err
	}

	router := server.NewRouter(map[string]server.ReadinessCheck{
		"nats": func() error {
			if !client.IsConnected() {
				return errors.New("not connected to NATS")
			}
			return nil
		},
		"consumer": func() error {
			if !c.Active() {
				return errors.New("subscription inactive")
			}
			return nil
		},
	})

	srvErr := server.New(cfg.Server, router, logger).Run(ctx)

	logger.Info("Shutting down worker")
	_ = c.Stop()
	if err := client.Drain(); err != nil {
		logger.Warn("NATS drain failed", "error", err.Error())
	}
	return srvErr
}
