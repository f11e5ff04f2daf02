package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gonyrida/sitedaily/internal/config"
	"github.com/gonyrida/sitedaily/internal/draftstore"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/providers"
	"github.com/gonyrida/sitedaily/internal/session"
)

// reportctl drives a report session from the command line: the same
// resolution, carry-forward, assembly and submit paths the browser form
// uses, minus the form.

var (
	// Used for flags.
	reportDate string
	reportID   string
	exportMode string
	outPath    string

	rootCmd = &cobra.Command{
		Use:   "reportctl",
		Short: "Command-line client for the daily site report store.",
		Long:  `reportctl opens, inspects, submits and exports daily construction site reports against a running report service, using the same session engine as the web form.`,
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Resolve and print the report for a date.",
		Long:  `Resolves the report for the given date through the full chain: remote store, local draft, carried-forward previous day, blank. Prints the resolved draft as JSON.`,
		RunE:  runShowCommand,
	}

	openCmd = &cobra.Command{
		Use:   "open",
		Short: "Load a report by its server-assigned id.",
		RunE:  runOpenCommand,
	}

	submitCmd = &cobra.Command{
		Use:   "submit",
		Short: "Validate, save and submit the report for a date.",
		Long:  `Submits the report for the given date. On success the local draft for that date is cleared and the next day's draft is pre-seeded with carried-forward quantities.`,
		RunE:  runSubmitCommand,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Request a generated document for a date.",
		RunE:  runExportCommand,
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Hold a date's report session open, snapshotting it locally.",
		Long:  `Resolves the report for the given date and keeps the session alive, persisting the full draft to the local store on the snapshot interval until interrupted. This is the safety net against losing a day's entries to a crash.`,
		RunE:  runWatchCommand,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&reportDate, "date", dtos.Today(), "Report date (YYYY-MM-DD).")

	openCmd.Flags().StringVar(&reportID, "id", "", "Server-assigned report id.")
	openCmd.MarkFlagRequired("id")

	exportCmd.Flags().StringVar(&exportMode, "mode", string(providers.ExportModeReport), "Document to render: report, reference or combined.")
	exportCmd.Flags().StringVar(&outPath, "out", "", "Output file path (defaults to the service-suggested filename).")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	cfg := config.Load()
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()
	Execute()
}

// newSession wires a session over the configured remote store and the
// local draft database.
func newSession(cfg *config.Config) (*session.ReportSession, func(), error) {
	drafts, err := draftstore.NewFileStore(cfg.DraftStorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open draft store: %w", err)
	}

	store := providers.NewReportAPIProvider(cfg.ReportAPIBaseURL, cfg.ReportAPIToken)
	exporter := providers.NewExportProvider(cfg.ExportBaseURL, cfg.ReportAPIToken)

	sess := session.NewReportSession(store, exporter, drafts, session.Config{
		AutoSaveDebounce: cfg.AutoSaveDebounce,
		SnapshotInterval: cfg.SnapshotInterval,
	})

	cleanup := func() {
		sess.Close()
		if err := drafts.Close(); err != nil {
			logging.Warn("failed to close draft store", "error", err.Error())
		}
	}
	return sess, cleanup, nil
}

func runShowCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	sess, cleanup, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	draft, err := sess.SelectDate(context.Background(), reportDate)
	if err != nil {
		return err
	}
	return printDraft(cmd, draft)
}

func runOpenCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	sess, cleanup, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	draft, err := sess.OpenReport(context.Background(), reportID)
	if err != nil {
		return err
	}
	return printDraft(cmd, draft)
}

func runSubmitCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	sess, cleanup, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := sess.SelectDate(context.Background(), reportDate); err != nil {
		return err
	}

	resp, err := sess.Submit(context.Background())
	if err != nil {
		if session.IsValidationError(err) {
			return fmt.Errorf("report for %s is not ready to submit: %w", reportDate, err)
		}
		return err
	}

	cmd.Printf("Submitted report %s for %s at %s\n", resp.ID, reportDate, resp.SubmittedAt)
	return nil
}

func runExportCommand(cmd *cobra.Command, args []string) error {
	mode := providers.ExportMode(strings.ToLower(exportMode))
	switch mode {
	case providers.ExportModeReport, providers.ExportModeReference, providers.ExportModeCombined:
	default:
		return fmt.Errorf("unknown export mode %q", exportMode)
	}

	cfg := config.Load()
	sess, cleanup, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := sess.SelectDate(context.Background(), reportDate); err != nil {
		return err
	}

	result, err := sess.Export(context.Background(), mode)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = result.Filename
	}
	if path == "" {
		path = fmt.Sprintf("report-%s.pdf", reportDate)
	}
	if err := os.WriteFile(filepath.Clean(path), result.Data, 0o644); err != nil {
		return fmt.Errorf("write exported document: %w", err)
	}

	cmd.Printf("Wrote %s (%d bytes, %s)\n", path, len(result.Data), result.ContentType)
	return nil
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	sess, cleanup, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	draft, err := sess.SelectDate(ctx, reportDate)
	if err != nil {
		return err
	}

	cmd.Printf("Watching report for %s (project %q); snapshotting every %s. Interrupt to stop.\n",
		reportDate, draft.ProjectName, cfg.SnapshotInterval)

	sess.RunSnapshots(ctx)

	// Final write so the last state is never older than one interval.
	sess.SaveLocal()
	cmd.Println("Stopped; draft saved locally.")
	return nil
}

func printDraft(cmd *cobra.Command, draft *dtos.ReportDraft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
