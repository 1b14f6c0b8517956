package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/submission-relay/internal/models"
	"github.com/telhawk-systems/submission-relay/internal/output"
	"github.com/telhawk-systems/submission-relay/internal/relay"
)

var (
	replayOutput string
	replayDryRun bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [event-file]",
	Short: "Run one SNS event document through the relay",
	Long: `Reads an SNS notification event (JSON) from a file, or from stdin when no
file is given or the file is "-", processes every embedded message and prints
one result per message.

With --dry-run the archive is still downloaded, but it is kept in memory and
notifications and delivery records go to the log.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", output.FormatTable, "output format: table, json, yaml")
	replayCmd.Flags().BoolVar(&replayDryRun, "dry-run", false, "use in-memory storage and log-only mail and audit backends")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	if !output.ValidFormat(replayOutput) {
		return fmt.Errorf("unsupported output format %q", replayOutput)
	}

	payload, err := readEvent(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	event, err := relay.DecodeEvent(payload)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if replayDryRun {
		cfg.Storage.Backend = "memory"
		cfg.Mail.Backend = "log"
		cfg.Audit.Backend = "log"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()
	h, closeClients, err := newHandler(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeClients()

	results := h.HandleSNS(ctx, event)
	return printResults(cmd.OutOrStdout(), replayOutput, results)
}

func readEvent(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return data, nil
}

func printResults(w io.Writer, format string, results []relay.Result) error {
	summaries := make([]relay.Summary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, r.Summary())
	}

	switch format {
	case output.FormatJSON:
		return output.JSON(w, summaries)
	case output.FormatYAML:
		return output.YAML(w, summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(w, "No messages in event")
		return nil
	}

	table := output.NewTable([]string{"#", "OUTCOME", "EMAIL", "LOCATION", "NOTIFIED", "RECORDED", "ERROR"})
	for i, s := range summaries {
		location := "-"
		if s.Object != nil {
			location = s.Object.Location
		}
		table.AddRow([]string{
			fmt.Sprintf("%d", i+1),
			output.Colorize(outcomeStatus(s.Outcome), string(s.Outcome)),
			s.Email,
			location,
			yesNo(s.Notified),
			yesNo(s.Recorded),
			s.Error,
		})
	}
	table.Render(w)
	return nil
}

func outcomeStatus(o models.Outcome) output.Status {
	switch o {
	case models.OutcomeDelivered:
		return output.StatusSuccess
	case models.OutcomeRejected:
		return output.StatusNotice
	default:
		return output.StatusFailure
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
