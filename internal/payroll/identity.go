package payroll

import (
	"regexp"
	"strings"

	"github.com/a3tai/roster-audit/internal/textnorm"
)

// Unknown is the value of identity fields that could not be found.
const Unknown = "N/D"

const identityScanLines = 25

var (
	seniorityDate = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)

	// header words that sit where the company name is expected
	companyBlacklist = []string{"CONCEPTO", "PRECIO", "IMPORTE", "TOTAL", "CUANTIA", "SELLO", "RECIBI", "FIRMA"}

	// AMBULANCIAS, SOCIEDAD or a legal form suffix such as S.L. or SAU
	companyLine = regexp.MustCompile(`AMBULANCIAS|SOCIEDAD|\bS\.?\s?[AL]\.?(?:U\.?)?(?:\s|$)`)
)

// Identity holds who was paid and by whom.
type Identity struct {
	Worker        string `json:"worker"`
	Company       string `json:"company"`
	Category      string `json:"category"`
	SeniorityDate string `json:"seniority_date"`
}

func unknownIdentity() Identity {
	return Identity{Worker: Unknown, Company: Unknown, Category: Unknown, SeniorityDate: Unknown}
}

func cellText(s string) string {
	return textnorm.Squash(strings.ReplaceAll(s, "\n", " "))
}

func blacklisted(value string) bool {
	folded := textnorm.Fold(value)
	for _, bad := range companyBlacklist {
		if strings.Contains(folded, bad) {
			return true
		}
	}
	return false
}

// extractIdentity reads identity fields from header rows: the row after an
// EMPRESA header names the company, the row after a TRABAJADOR header carries
// worker, category and seniority date. Lines are the fallback for the company.
func extractIdentity(rows [][]string, lines []string) Identity {
	id := unknownIdentity()

	for i, row := range rows {
		if i+1 >= len(rows) {
			break
		}
		header := textnorm.Fold(strings.Join(row, " "))
		next := rows[i+1]
		if len(next) == 0 {
			continue
		}

		if strings.Contains(header, "EMPRESA") {
			if v := cellText(next[0]); v != "" && !blacklisted(v) {
				id.Company = v
			}
		}

		if strings.Contains(header, "TRABAJADOR") {
			if v := cellText(next[0]); v != "" {
				id.Worker = v
			}
			switch {
			case len(next) > 3 && cellText(next[3]) != "":
				id.Category = cellText(next[3])
			case len(next) > 1 && cellText(next[1]) != "":
				id.Category = cellText(next[1])
			}
			for _, cell := range next {
				if m := seniorityDate.FindStringSubmatch(cell); m != nil {
					id.SeniorityDate = m[1]
					break
				}
			}
		}
	}

	if id.Company == Unknown {
		if c, ok := companyFromLines(lines); ok {
			id.Company = c
		}
	}
	return id
}

func companyFromLines(lines []string) (string, bool) {
	if len(lines) > identityScanLines {
		lines = lines[:identityScanLines]
	}
	for _, line := range lines {
		if companyLine.MatchString(textnorm.Fold(line)) && !blacklisted(line) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}
