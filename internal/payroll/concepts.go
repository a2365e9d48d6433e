package payroll

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Concept is a salary line category.
type Concept int

const (
	ConceptNone Concept = iota
	ConceptExtraPayment
	ConceptBaseSalary
	ConceptSeniority
	ConceptPlusAgreement
	ConceptNocturnal
	ConceptHoliday
	ConceptPerDiem
)

func (c Concept) String() string {
	switch c {
	case ConceptExtraPayment:
		return "extra_payment"
	case ConceptBaseSalary:
		return "base_salary"
	case ConceptSeniority:
		return "seniority"
	case ConceptPlusAgreement:
		return "plus_agreement"
	case ConceptNocturnal:
		return "nocturnal_pay"
	case ConceptHoliday:
		return "holiday_pay"
	case ConceptPerDiem:
		return "per_diem"
	default:
		return "none"
	}
}

// Fixed reports whether the concept is a contractual figure reconciled by
// maximum rather than by sum.
func (c Concept) Fixed() bool {
	return c == ConceptBaseSalary || c == ConceptSeniority || c == ConceptPlusAgreement
}

type keywordRole int

const (
	roleConcept keywordRole = iota
	roleSkip
	roleVeto
	roleProration
)

type keyword struct {
	text    string
	role    keywordRole
	concept Concept
}

// keywords are listed in match priority: the first concept hit on a line wins.
// Extra payments come first so "PAGA EXTRA SALARIO BASE" is not a base salary.
var keywords = []keyword{
	{"TOTAL", roleSkip, ConceptNone},
	{"COTIZACION", roleSkip, ConceptNone},
	{"PAGA", roleConcept, ConceptExtraPayment},
	{"EXTRA", roleConcept, ConceptExtraPayment},
	{"ATRASOS", roleConcept, ConceptExtraPayment},
	{"NAVIDAD", roleConcept, ConceptExtraPayment},
	{"BENEFICIOS", roleConcept, ConceptExtraPayment},
	{"SALARIO BASE", roleConcept, ConceptBaseSalary},
	{"ANTIGUEDAD", roleConcept, ConceptSeniority},
	{"CONVENIO", roleConcept, ConceptPlusAgreement},
	{"NOCTURN", roleConcept, ConceptNocturnal},
	{"FESTIV", roleConcept, ConceptHoliday},
	{"DIETA", roleConcept, ConceptPerDiem},
	{"MANUTENCION", roleConcept, ConceptPerDiem},
	{"SEGURO", roleVeto, ConceptPlusAgreement},
	{"PRORR", roleProration, ConceptNone},
}

// LineMatch is what the matcher found on one folded line.
type LineMatch struct {
	Concept  Concept
	Skip     bool
	Prorated bool
}

// Matcher classifies payslip lines in a single pass over each line.
type Matcher struct {
	ac *ahocorasick.Matcher
}

// NewMatcher compiles the keyword automaton.
func NewMatcher() *Matcher {
	dict := make([]string, len(keywords))
	for i, k := range keywords {
		dict[i] = k.text
	}
	return &Matcher{ac: ahocorasick.NewStringMatcher(dict)}
}

// Match classifies an upper-cased, accent-folded line. It is safe for
// concurrent use.
func (m *Matcher) Match(folded string) LineMatch {
	var (
		lm     LineMatch
		best   = len(keywords)
		vetoed = make(map[Concept]bool)
	)

	for _, idx := range m.ac.MatchThreadSafe([]byte(folded)) {
		k := keywords[idx]
		switch k.role {
		case roleSkip:
			// contribution bases are not salary lines
			if k.text == "TOTAL" || strings.Contains(folded, "BASE") {
				lm.Skip = true
			}
		case roleVeto:
			vetoed[k.concept] = true
		case roleProration:
			lm.Prorated = true
		case roleConcept:
			if idx < best {
				best = idx
			}
		}
	}

	if best < len(keywords) {
		lm.Concept = keywords[best].concept
	}
	if vetoed[lm.Concept] {
		lm.Concept = ConceptNone
	}
	return lm
}
