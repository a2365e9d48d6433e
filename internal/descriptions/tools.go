package descriptions

import "sort"

// Tool names exposed over MCP
const (
	ToolRosterParse   = "roster_parse"
	ToolPayrollAudit  = "payroll_audit"
	ToolAuditReport   = "audit_report"
	ToolValidateFile  = "pdf_validate_file"
	ToolListDocuments = "pdf_list_documents"
	ToolServerInfo    = "server_info"
)

// Long-form tool descriptions with examples and workflows

const (
	// Audit tools
	RosterParseDescription = `Read a shift roster PDF into dated day records with a code legend.

**When to use:** First step of every audit, or after correcting a roster PDF.

**What you get:** Year, number of day records, every shift code with its kind (work, absence, vacation, unknown), schedule and hours, holidays found, vacation periods kept, and the codes still pending review.

**Examples:**
• "Parse cuadrante_2025.pdf"
• "Parse cuadrante.pdf for year 2024" (year argument overrides the configured one)

**Common workflows:**
1. Parse roster → check pending codes → decide work/absence/delete for each → audit_report with resolutions
2. Parse roster → compare vacation periods with the worker's requests

**Notes:** Vacation runs of 14 days or fewer are discarded as noise. Codes printed without a time range in the legend are reported as pending.`

	PayrollAuditDescription = `Analyze a year of payslip PDFs and reconcile them into one payroll profile.

**When to use:** Before pricing a roster, to get the salary figures the hourly rate is built from.

**What you get:** Worker, company, category and seniority date; base salary, seniority and agreement plus (highest monthly value); nocturnal, holiday and per-diem pay (annual sums); extra payments paid, the theoretical extra payment and the pending difference; whether extra payments are prorated.

**Examples:**
• "Audit nomina_01.pdf,nomina_02.pdf,nomina_03.pdf"

**Notes:** Payslips are read in parallel. A payslip that cannot be read is listed as a diagnostic and left out of the totals.`

	AuditReportDescription = `Run the full audit and write the Excel report.

**When to use:** Once every roster code is resolved.

**What it does:** Parses the roster, audits the payslips, applies your code resolutions, computes the rest debt per worked day (0.5 h for 8 h shifts, 1 h for 12 h, 2 h for 24 h, one twelfth otherwise), prices it at (base + seniority + plus) x 15 / 1776 unless an hourly rate is given, adds the unpaid extra payment, and writes a workbook with an executive summary and a monthly detail. Optionally writes a CSV of priced days.

**Arguments:**
• resolutions: JSON list such as [{"code":"555","action":"work","start":"08:00","end":"15:00"},{"code":"999","action":"delete"}]
• pricing: JSON object with any of hourly_rate, base_salary, seniority, plus_agreement, extra_payment_included, extra_payment_amount, audited_nocturnal, audited_holiday, audited_per_diem, category

**Notes:** If codes remain unresolved the report is not written and the pending codes are returned.`

	// Document tools
	ValidateFileDescription = `Check that a file is a readable PDF before auditing it.

**When to use:** When roster_parse or payroll_audit reports a document failure.

**What you get:** Page count and encryption status, or the reason the file cannot be read (not a PDF, empty, too large, encrypted, damaged).`

	ListDocumentsDescription = `List the PDF files under the document directory.

**When to use:** To find the roster and payslip files to audit.

**Notes:** Hidden folders are skipped. Paths may be passed to the other tools as returned.`

	ServerInfoDescription = `Show the server version, the document directory, the audit settings and the available tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolRosterParse:   RosterParseDescription,
	ToolPayrollAudit:  PayrollAuditDescription,
	ToolAuditReport:   AuditReportDescription,
	ToolValidateFile:  ValidateFileDescription,
	ToolListDocuments: ListDocumentsDescription,
	ToolServerInfo:    ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in alphabetical order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
