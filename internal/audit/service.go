// Package audit ties document extraction to the roster and payroll parsers
// and prices the outcome.
package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/roster-audit/internal/payroll"
	"github.com/a3tai/roster-audit/internal/pdf"
	pdferrors "github.com/a3tai/roster-audit/internal/pdf/errors"
	"github.com/a3tai/roster-audit/internal/report"
	"github.com/a3tai/roster-audit/internal/roster"
	"github.com/a3tai/roster-audit/internal/settlement"
)

// ErrNoRoster is returned when a report is requested without a roster.
var ErrNoRoster = errors.New("a roster document is required")

// ErrRosterUnreadable is returned by Run when the roster document cannot be
// extracted. No report is written in that case.
var ErrRosterUnreadable = errors.New("roster document could not be read")

// DocumentReader opens a PDF and returns its text and layout.
type DocumentReader interface {
	ReadDocument(path string) (*pdf.Document, error)
}

// Options configures a Service.
type Options struct {
	Roster  roster.Options
	Workers int
	// Pricing overrides the values read from the payslips.
	Pricing map[string]any
}

// Service runs roster and payroll audits over documents.
type Service struct {
	docs     DocumentReader
	opts     Options
	analyzer *payroll.Analyzer
	log      logrus.FieldLogger
}

// NewService creates an audit service. A nil logger uses the logrus standard
// logger.
func NewService(docs DocumentReader, opts Options, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = payroll.DefaultWorkers
	}
	return &Service{
		docs:     docs,
		opts:     opts,
		analyzer: payroll.NewAnalyzer(),
		log:      log,
	}
}

// ParseRoster extracts a roster document. year overrides the configured year
// when non-zero. Extraction failures give an empty result with a diagnostic.
func (s *Service) ParseRoster(path string, year int) roster.Result {
	result, _ := s.parseRoster(path, year)
	return result
}

func (s *Service) parseRoster(path string, year int) (roster.Result, error) {
	opts := s.opts.Roster
	if year != 0 {
		opts.Year = year
	}
	parser := roster.NewParser(opts, s.log.WithField("document", path))

	doc, err := s.docs.ReadDocument(path)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"path":  path,
			"kind":  pdferrors.TypeOf(err).String(),
			"error": err,
		}).Warn("roster extraction failed")
		return roster.Result{
			Year:        parser.Year(),
			Legend:      roster.Legend{},
			Holidays:    roster.NewHolidaySet(),
			Diagnostics: []string{fmt.Sprintf("%s: %v", path, err)},
		}, err
	}

	return parser.Parse(doc.Text, doc.Tables), nil
}

// AuditPayroll reads every payslip and combines them into one aggregate.
func (s *Service) AuditPayroll(ctx context.Context, paths []string) (payroll.Aggregate, error) {
	agg, err := s.analyzer.AnnualAudit(ctx, paths, s.load, s.opts.Workers)
	if err != nil {
		return payroll.Aggregate{}, fmt.Errorf("payroll audit: %w", err)
	}
	for _, d := range agg.Diagnostics {
		s.log.WithField("diagnostic", d).Warn("payslip skipped")
	}
	s.log.WithFields(logrus.Fields{
		"documents": agg.Documents,
		"year":      agg.Year,
		"prorated":  agg.IsProrated,
	}).Info("payroll audited")
	return agg, nil
}

func (s *Service) load(ctx context.Context, path string) (payroll.Document, error) {
	if err := ctx.Err(); err != nil {
		return payroll.Document{}, err
	}
	doc, err := s.docs.ReadDocument(path)
	if err != nil {
		return payroll.Document{}, err
	}
	return payroll.Document{Source: path, Text: doc.Text, Rows: doc.Rows}, nil
}

// Request describes one full audit.
type Request struct {
	Roster      string
	Payslips    []string
	Year        int
	Resolutions []roster.Resolution
	// Pricing is applied over the configured pricing.
	Pricing map[string]any
	// Workbook and CSV are output paths; empty skips the file.
	Workbook string
	CSV      string
}

// Outcome is everything a full audit produced.
type Outcome struct {
	Roster      roster.Result          `json:"roster"`
	Payroll     payroll.Aggregate      `json:"payroll"`
	Settlement  *settlement.Settlement `json:"settlement,omitempty"`
	Pending     []string               `json:"pending,omitempty"`
	Workbook    string                 `json:"workbook,omitempty"`
	CSV         string                 `json:"csv,omitempty"`
	Diagnostics []string               `json:"diagnostics,omitempty"`
}

// Run parses the roster, audits the payslips, applies the resolutions and
// prices the result. When codes are still pending the outcome lists them
// together with settlement.ErrUnresolvedCodes.
func (s *Service) Run(ctx context.Context, req Request) (*Outcome, error) {
	if req.Roster == "" {
		return nil, ErrNoRoster
	}

	result, err := s.parseRoster(req.Roster, req.Year)
	out := &Outcome{Roster: result}
	out.Diagnostics = append(out.Diagnostics, out.Roster.Diagnostics...)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrRosterUnreadable, err)
	}

	if len(req.Payslips) > 0 {
		agg, err := s.AuditPayroll(ctx, req.Payslips)
		if err != nil {
			return nil, err
		}
		out.Payroll = agg
		out.Diagnostics = append(out.Diagnostics, agg.Diagnostics...)
	}

	records, legend := out.Roster.Records, out.Roster.Legend
	for _, r := range req.Resolutions {
		var err error
		records, legend, err = roster.Resolve(records, legend, r)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", r.Code, err)
		}
	}
	out.Roster.Records, out.Roster.Legend = records, legend

	if pending := roster.Unresolved(records, legend); len(pending) > 0 {
		out.Pending = pending
		return out, fmt.Errorf("%w: %v", settlement.ErrUnresolvedCodes, pending)
	}

	pricing := settlement.PricingFromAggregate(out.Payroll).
		Overlay(s.opts.Pricing).
		Overlay(req.Pricing)

	st, err := settlement.Calculate(out.Roster, pricing)
	if err != nil {
		return out, err
	}
	out.Settlement = st

	in := report.Input{Settlement: st, Identity: out.Payroll.Identity, Generated: time.Now()}
	if in.Identity.Category == "" || in.Identity.Category == payroll.Unknown {
		in.Identity.Category = pricing.Category
	}

	if req.Workbook != "" {
		if err := report.SaveWorkbook(req.Workbook, in); err != nil {
			return out, err
		}
		out.Workbook = req.Workbook
	}
	if req.CSV != "" {
		if err := writeCSV(req.CSV, st); err != nil {
			return out, err
		}
		out.CSV = req.CSV
	}

	s.log.WithFields(logrus.Fields{
		"records":    len(records),
		"debt_hours": st.DebtHours,
		"total":      st.Total.StringFixed(2),
	}).Info("audit complete")
	return out, nil
}

func writeCSV(path string, st *settlement.Settlement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.WriteCSV(f, st); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
