package roster

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/roster-audit/internal/pdf/extraction"
)

// Options tunes the roster pipeline.
type Options struct {
	Year              int
	LegendWindow      int
	VacationThreshold int
	LenientHolidays   bool
}

// DefaultOptions returns the settings for the current year.
func DefaultOptions() Options {
	return Options{
		LegendWindow:      DefaultLegendWindow,
		VacationThreshold: DefaultVacationThreshold,
	}
}

// Parser runs the roster pipeline over one document: holidays and legend are
// read from the free text, then the tables are walked and vacation blocks
// filtered.
type Parser struct {
	opts       Options
	inferencer LegendInferencer
	holidays   HolidayExtractor
	walker     *Walker
	log        logrus.FieldLogger
}

// NewParser builds a parser. A nil logger uses the logrus standard logger.
func NewParser(opts Options, log logrus.FieldLogger) *Parser {
	opts.Year = ResolveYear(opts.Year)
	if opts.VacationThreshold <= 0 {
		opts.VacationThreshold = DefaultVacationThreshold
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Parser{
		opts:       opts,
		inferencer: NewProximityInferencer(opts.Year, opts.LegendWindow),
		holidays:   HolidayExtractor{Year: opts.Year, Lenient: opts.LenientHolidays},
		walker:     NewWalker(opts.Year),
		log:        log.WithField("year", opts.Year),
	}
}

// WithInferencer swaps the legend strategy.
func (p *Parser) WithInferencer(inf LegendInferencer) *Parser {
	p.inferencer = inf
	return p
}

// Year returns the roster year the parser was built for.
func (p *Parser) Year() int {
	return p.opts.Year
}

// Parse turns document text and tables into a Result. It never fails: data
// problems end up in Result.Diagnostics.
func (p *Parser) Parse(text string, tables []extraction.Table) Result {
	holidays := p.holidays.Extract(text)
	legend := p.inferencer.Infer(text)

	records, additions := p.walker.Walk(tables, legend, holidays)
	legend = legend.Merge(additions)

	filtered := FilterVacationBlocks(records, p.opts.VacationThreshold)

	result := Result{
		Year:     p.opts.Year,
		Records:  filtered,
		Legend:   legend,
		Holidays: holidays,
	}

	if len(records) == 0 {
		result.Diagnostics = append(result.Diagnostics, "no month rows found in roster tables")
	}
	if dropped := len(records) - len(filtered); dropped > 0 {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("%d vacation days in runs of %d days or fewer were discarded", dropped, p.opts.VacationThreshold))
	}
	if pending := Unresolved(filtered, legend); len(pending) > 0 {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("%d codes need review: %v", len(pending), pending))
	}

	p.log.WithFields(logrus.Fields{
		"records":  len(filtered),
		"dropped":  len(records) - len(filtered),
		"codes":    len(legend),
		"holidays": len(holidays),
	}).Debug("roster parsed")

	return result
}
