package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/roster-audit/internal/audit"
	"github.com/a3tai/roster-audit/internal/config"
	"github.com/a3tai/roster-audit/internal/mcp"
	"github.com/a3tai/roster-audit/internal/pdf"
	"github.com/a3tai/roster-audit/internal/report"
	"github.com/a3tai/roster-audit/internal/settlement"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the logger. Output always goes to stderr so stdout
// stays free for the MCP protocol and the report summary.
func setupLogging(cfg *config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// runReportMode runs one audit from the configured documents and prints its
// summary to out
func runReportMode(ctx context.Context, out io.Writer, cfg *config.Config, svc *audit.Service, log logrus.FieldLogger) error {
	outcome, err := svc.Run(ctx, audit.Request{
		Roster:      cfg.Roster,
		Payslips:    cfg.Payslips,
		Year:        cfg.Year,
		Resolutions: cfg.Resolutions,
		Workbook:    cfg.Output,
		CSV:         cfg.CSV,
	})
	if errors.Is(err, settlement.ErrUnresolvedCodes) && outcome != nil {
		log.WithField("codes", outcome.Pending).Error("add a resolution for each code to the config file")
		return err
	}
	if err != nil {
		return err
	}

	for _, d := range outcome.Diagnostics {
		log.Warn(d)
	}
	fmt.Fprint(out, report.Summary(report.Input{
		Settlement: outcome.Settlement,
		Identity:   outcome.Payroll.Identity,
	}))
	fmt.Fprintf(out, "\nWorkbook: %s\n", outcome.Workbook)
	if outcome.CSV != "" {
		fmt.Fprintf(out, "CSV: %s\n", outcome.CSV)
	}
	return nil
}

// runStdioMode serves MCP until the client goes away
func runStdioMode(ctx context.Context, server *mcp.Server, log logrus.FieldLogger) {
	if err := server.Run(ctx); err != nil {
		log.WithError(err).Error("server error")
		os.Exit(1)
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := setupLogging(cfg, os.Stderr)

	if version != "dev" {
		cfg.Version = version
	}
	log.WithField("config", cfg.String()).Debug("starting")

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, cfg.LayoutOptions(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to create PDF service")
	}
	auditService := audit.NewService(pdfService, cfg.AuditOptions(), log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.IsReportMode() {
		if err := runReportMode(ctx, os.Stdout, cfg, auditService, log); err != nil {
			log.WithError(err).Error("audit failed")
			cancel()
			os.Exit(1)
		}
		return
	}

	server, err := mcp.NewServer(cfg, pdfService, auditService, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create MCP server")
	}
	runStdioMode(ctx, server, log)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Roster Audit\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
