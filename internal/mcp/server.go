package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/a3tai/roster-audit/internal/audit"
	"github.com/a3tai/roster-audit/internal/config"
	"github.com/a3tai/roster-audit/internal/descriptions"
	"github.com/a3tai/roster-audit/internal/payroll"
	"github.com/a3tai/roster-audit/internal/pdf"
	"github.com/a3tai/roster-audit/internal/report"
	"github.com/a3tai/roster-audit/internal/roster"
	"github.com/a3tai/roster-audit/internal/settlement"
)

// Server represents the MCP server instance
type Server struct {
	config       *config.Config
	pdfService   *pdf.Service
	auditService *audit.Service
	mcpServer    *server.MCPServer
	log          logrus.FieldLogger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, auditService *audit.Service, log logrus.FieldLogger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if auditService == nil {
		return nil, fmt.Errorf("auditService cannot be nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:       cfg,
		pdfService:   pdfService,
		auditService: auditService,
		mcpServer:    mcpServer,
		log:          log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	rosterParseTool := mcp.NewTool(
		descriptions.ToolRosterParse,
		mcp.WithDescription(descriptions.RosterParseDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Roster PDF, absolute or relative to the document directory"),
		),
		mcp.WithNumber("year",
			mcp.Description("Roster year; defaults to the configured year"),
		),
	)
	s.mcpServer.AddTool(rosterParseTool, s.handleRosterParse)

	payrollAuditTool := mcp.NewTool(
		descriptions.ToolPayrollAudit,
		mcp.WithDescription(descriptions.PayrollAuditDescription),
		mcp.WithString("paths",
			mcp.Required(),
			mcp.Description("Comma separated payslip PDFs"),
		),
	)
	s.mcpServer.AddTool(payrollAuditTool, s.handlePayrollAudit)

	auditReportTool := mcp.NewTool(
		descriptions.ToolAuditReport,
		mcp.WithDescription(descriptions.AuditReportDescription),
		mcp.WithString("roster",
			mcp.Required(),
			mcp.Description("Roster PDF"),
		),
		mcp.WithString("payslips",
			mcp.Description("Comma separated payslip PDFs"),
		),
		mcp.WithNumber("year",
			mcp.Description("Roster year; defaults to the configured year"),
		),
		mcp.WithString("resolutions",
			mcp.Description("JSON list of code resolutions"),
		),
		mcp.WithString("pricing",
			mcp.Description("JSON object of pricing overrides"),
		),
		mcp.WithString("output",
			mcp.Description("Workbook path; defaults to the configured output inside the document directory"),
		),
		mcp.WithString("csv",
			mcp.Description("Optional CSV path for the priced days"),
		),
	)
	s.mcpServer.AddTool(auditReportTool, s.handleAuditReport)

	validateFileTool := mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.ValidateFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("PDF file to validate"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	listDocumentsTool := mcp.NewTool(
		descriptions.ToolListDocuments,
		mcp.WithDescription(descriptions.ListDocumentsDescription),
		mcp.WithString("directory",
			mcp.Description("Directory to list; defaults to the document directory"),
		),
	)
	s.mcpServer.AddTool(listDocumentsTool, s.handleListDocuments)

	serverInfoTool := mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleRosterParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	year, err := yearArgument(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.auditService.ParseRoster(path, year)
	return mcp.NewToolResultText(s.formatRosterResult(path, result)), nil
}

func (s *Server) handlePayrollAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := splitList(raw)
	if len(paths) == 0 {
		return mcp.NewToolResultError("at least one payslip path is required"), nil
	}

	agg, err := s.auditService.AuditPayroll(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatAggregate(agg)), nil
}

func (s *Server) handleAuditReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rosterPath, err := request.RequireString("roster")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	year, err := yearArgument(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workbook, err := s.outputPath(stringArgument(args, "output"), s.config.Output)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid output: %v", err)), nil
	}
	csvPath, err := s.outputPath(stringArgument(args, "csv"), "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid csv: %v", err)), nil
	}

	req := audit.Request{
		Roster:   rosterPath,
		Payslips: splitList(stringArgument(args, "payslips")),
		Year:     year,
		Workbook: workbook,
		CSV:      csvPath,
	}
	// Config file resolutions come first so the call can override them
	req.Resolutions = append(req.Resolutions, s.config.Resolutions...)

	if raw := stringArgument(args, "resolutions"); raw != "" {
		var resolutions []roster.Resolution
		if err := json.Unmarshal([]byte(raw), &resolutions); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid resolutions: %v", err)), nil
		}
		req.Resolutions = append(req.Resolutions, resolutions...)
	}
	if raw := stringArgument(args, "pricing"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Pricing); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid pricing: %v", err)), nil
		}
	}

	out, err := s.auditService.Run(ctx, req)
	if errors.Is(err, settlement.ErrUnresolvedCodes) && out != nil {
		return mcp.NewToolResultError(s.formatPending(out)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatOutcome(out)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
		if result.Encrypted {
			responseText += ", encrypted"
		}
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory := stringArgument(request.GetArguments(), "directory")

	files, err := s.pdfService.ListDocuments(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", s.displayDir(directory))), nil
	}
	return mcp.NewToolResultText(s.formatDocuments(directory, files)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Argument helpers
func stringArgument(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func yearArgument(args map[string]any) (int, error) {
	raw, ok := args["year"]
	if !ok || raw == nil {
		return 0, nil
	}
	year, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid year: %v", raw)
	}
	if year != 0 && (year < 2000 || year > 2100) {
		return 0, fmt.Errorf("year %d out of range", year)
	}
	return year, nil
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// outputPath places output files inside the document directory; an empty
// path with no fallback means the file is not written
func (s *Server) outputPath(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	if path == "" {
		return "", nil
	}
	return s.pdfService.ResolveOutput(path)
}

func (s *Server) displayDir(dir string) string {
	if dir == "" {
		return s.pdfService.Root()
	}
	return dir
}

// Formatting methods
func (s *Server) formatRosterResult(path string, result roster.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Roster: %s\n", path)
	fmt.Fprintf(&b, "Year: %d\n", result.Year)
	fmt.Fprintf(&b, "Day records: %d\n", len(result.Records))
	fmt.Fprintf(&b, "Vacation days: %d\n", roster.VacationDays(result.Records))

	if len(result.Legend) > 0 {
		b.WriteString("\nLegend:\n")
		for _, code := range result.Legend.Codes() {
			e := result.Legend[code]
			fmt.Fprintf(&b, "  %-10s %-8s", code, e.Kind)
			if e.HasSchedule() {
				fmt.Fprintf(&b, " %s-%s %.2fh (%.2fh nocturnas)", e.Start, e.End, e.Hours, e.NocturnalHours)
			}
			if e.Description != "" {
				fmt.Fprintf(&b, " %s", e.Description)
			}
			fmt.Fprintf(&b, " [%s]\n", e.Source)
		}
	}

	if holidays := result.Holidays.Sorted(); len(holidays) > 0 {
		dates := make([]string, len(holidays))
		for i, d := range holidays {
			dates[i] = d.Format("02/01/2006")
		}
		fmt.Fprintf(&b, "\nHolidays: %s\n", strings.Join(dates, ", "))
	}

	if periods := roster.VacationPeriods(result.Records); len(periods) > 0 {
		b.WriteString("\nVacation periods:\n")
		for _, p := range periods {
			fmt.Fprintf(&b, "  %s - %s (%d days)\n", p.Start.Format("02/01/2006"), p.End.Format("02/01/2006"), p.Days())
		}
	}

	if pending := roster.Unresolved(result.Records, result.Legend); len(pending) > 0 {
		fmt.Fprintf(&b, "\nPending review: %s\n", strings.Join(pending, ", "))
		fmt.Fprintf(&b, "Resolve them in %s with the resolutions argument.\n", descriptions.ToolAuditReport)
	}

	s.writeDiagnostics(&b, result.Diagnostics)
	return b.String()
}

func (s *Server) formatAggregate(agg payroll.Aggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Payroll audit %d (%d documents)\n", agg.Year, agg.Documents)
	fmt.Fprintf(&b, "Worker: %s\n", agg.Worker)
	fmt.Fprintf(&b, "Company: %s\n", agg.Company)
	fmt.Fprintf(&b, "Category: %s\n", agg.Category)
	fmt.Fprintf(&b, "Seniority date: %s\n", agg.SeniorityDate)
	b.WriteString("\nMonthly fixed concepts (highest value):\n")
	fmt.Fprintf(&b, "  Base salary: %s\n", report.FormatAmount(agg.BaseSalary))
	fmt.Fprintf(&b, "  Seniority: %s\n", report.FormatAmount(agg.Seniority))
	fmt.Fprintf(&b, "  Agreement plus: %s\n", report.FormatAmount(agg.PlusAgreement))
	b.WriteString("\nAnnual variable concepts:\n")
	fmt.Fprintf(&b, "  Nocturnal: %s\n", report.FormatAmount(agg.NocturnalPay))
	fmt.Fprintf(&b, "  Holidays: %s\n", report.FormatAmount(agg.HolidayPay))
	fmt.Fprintf(&b, "  Per diem: %s\n", report.FormatAmount(agg.PerDiem))
	b.WriteString("\nExtra payments:\n")
	fmt.Fprintf(&b, "  Paid: %s\n", report.FormatAmount(agg.ExtraPaid))
	fmt.Fprintf(&b, "  Theoretical: %s\n", report.FormatAmount(agg.TheoreticalExtra))
	fmt.Fprintf(&b, "  Pending: %s\n", report.FormatAmount(agg.ExtraDebt))
	fmt.Fprintf(&b, "  Prorated: %t\n", agg.IsProrated)

	s.writeDiagnostics(&b, agg.Diagnostics)
	return b.String()
}

func (s *Server) formatPending(out *audit.Outcome) string {
	return fmt.Sprintf("%d codes need review before pricing: %s. Pass a resolution for each one (work, absence or delete).",
		len(out.Pending), strings.Join(out.Pending, ", "))
}

func (s *Server) formatOutcome(out *audit.Outcome) string {
	var b strings.Builder
	b.WriteString(report.Summary(report.Input{
		Settlement: out.Settlement,
		Identity:   out.Payroll.Identity,
	}))
	if out.Workbook != "" {
		fmt.Fprintf(&b, "\nWorkbook: %s\n", out.Workbook)
	}
	if out.CSV != "" {
		fmt.Fprintf(&b, "CSV: %s\n", out.CSV)
	}
	s.writeDiagnostics(&b, out.Diagnostics)
	return b.String()
}

func (s *Server) formatDocuments(directory string, files []pdf.FileInfo) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n\nFiles:\n", len(files), s.displayDir(directory))
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}
	return text
}

func (s *Server) formatServerInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server: %s %s\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Document directory: %s\n", s.pdfService.Root())
	fmt.Fprintf(&b, "Max file size: %d bytes\n", s.pdfService.GetMaxFileSize())
	fmt.Fprintf(&b, "Year: %d\n", roster.ResolveYear(s.config.Year))
	fmt.Fprintf(&b, "Vacation threshold: %d days\n", s.config.VacationThreshold)
	fmt.Fprintf(&b, "Legend window: %d characters\n", s.config.LegendWindow)
	fmt.Fprintf(&b, "Lenient holidays: %t\n", s.config.LenientHolidays)
	fmt.Fprintf(&b, "Configured resolutions: %d\n", len(s.config.Resolutions))

	b.WriteString("\nTools:\n")
	for _, name := range descriptions.GetAllToolNames() {
		desc := descriptions.GetToolDescription(name)
		if i := strings.IndexByte(desc, '\n'); i > 0 {
			desc = desc[:i]
		}
		fmt.Fprintf(&b, "  %s: %s\n", name, desc)
	}
	return b.String()
}

func (s *Server) writeDiagnostics(b *strings.Builder, diagnostics []string) {
	if len(diagnostics) == 0 {
		return
	}
	b.WriteString("\nDiagnostics:\n")
	for _, d := range diagnostics {
		fmt.Fprintf(b, "  - %s\n", d)
	}
}

// Run serves the MCP protocol over stdio until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.log.WithFields(logrus.Fields{
		"dir":  s.pdfService.Root(),
		"year": roster.ResolveYear(s.config.Year),
	}).Info("starting roster audit MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
