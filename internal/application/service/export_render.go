package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
)

// exportDateLayout is used for date-only fields (due dates, contract expiry).
const exportDateLayout = "2006-01-02"

// exportSnapshot is the material a register export renders from. One
// snapshot feeds all three output formats, so CSV, PDF, and JSON of the
// same export always agree.
type exportSnapshot struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Scope       string              `json:"scope"`
	Risks       []exportRiskRow     `json:"risks,omitempty"`
	Actions     []exportActionRow   `json:"actions,omitempty"`
	Suppliers   []exportSupplierRow `json:"suppliers,omitempty"`
}

type exportRiskRow struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	Status            string `json:"status"`
	Owner             string `json:"owner,omitempty"`
	Likelihood        int    `json:"likelihood"`
	Consequence       int    `json:"consequence"`
	Score             int    `json:"score"`
	Level             string `json:"level"`
	TargetLikelihood  int    `json:"target_likelihood,omitempty"`
	TargetConsequence int    `json:"target_consequence,omitempty"`
	TargetScore       int    `json:"target_score,omitempty"`
	TargetLevel       string `json:"target_level,omitempty"`
	LastReviewedAt    string `json:"last_reviewed_at,omitempty"`
	CreatedAt         string `json:"created_at"`
}

type exportActionRow struct {
	ID          string `json:"id"`
	RiskID      string `json:"risk_id"`
	Title       string `json:"title"`
	Priority    string `json:"priority"`
	Responsible string `json:"responsible,omitempty"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type exportSupplierRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Service        string `json:"service"`
	Criticality    int    `json:"criticality"`
	ContractExpiry string `json:"contract_expiry,omitempty"`
	Contact        string `json:"contact,omitempty"`
}

// scopeIncludes reports whether a scope covers a section. An empty
// register still emits the section headers its scope covers.
func scopeIncludes(scope, section string) bool {
	return scope == constants.ExportScopeFull || scope == section
}

func renderExport(format string, snap *exportSnapshot) ([]byte, error) {
	switch format {
	case constants.ExportFormatCSV:
		return renderExportCSV(snap)
	case constants.ExportFormatPDF:
		return renderExportPDF(snap)
	case constants.ExportFormatJSON:
		return renderExportJSON(snap)
	default:
		return nil, errors.ErrInvalidRequest.
			WithMessagef("unknown export format %q", format).
			WithDetails(map[string]string{"format": "must be one of csv, pdf, json"})
	}
}

func renderExportCSV(snap *exportSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	first := true
	section := func(title string, header []string) {
		if !first {
			_ = w.Write([]string{""})
		}
		first = false
		_ = w.Write([]string{title})
		_ = w.Write(header)
	}

	if scopeIncludes(snap.Scope, constants.ExportScopeRisks) {
		section("Risks", []string{
			"ID", "Title", "Type", "Status", "Owner",
			"Likelihood", "Consequence", "Score", "Level",
			"Target likelihood", "Target consequence", "Target score", "Target level",
			"Last reviewed", "Created",
		})
		for _, r := range snap.Risks {
			_ = w.Write(riskCSVRecord(r))
		}
	}
	if scopeIncludes(snap.Scope, constants.ExportScopeActions) {
		section("Actions", []string{
			"ID", "Risk ID", "Title", "Priority", "Responsible", "Status", "Due", "Completed",
		})
		for _, a := range snap.Actions {
			_ = w.Write([]string{a.ID, a.RiskID, a.Title, a.Priority, a.Responsible, a.Status, a.DueDate, a.CompletedAt})
		}
	}
	if scopeIncludes(snap.Scope, constants.ExportScopeSuppliers) {
		section("Suppliers", []string{
			"ID", "Name", "Service", "Criticality", "Contract expiry", "Contact",
		})
		for _, s := range snap.Suppliers {
			_ = w.Write([]string{s.ID, s.Name, s.Service, strconv.Itoa(s.Criticality), s.ContractExpiry, s.Contact})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.ErrInternal.WithMessage("failed to render CSV export").WithError(err)
	}
	return buf.Bytes(), nil
}

func riskCSVRecord(r exportRiskRow) []string {
	targetL, targetC, targetScore := "", "", ""
	if r.TargetLevel != "" {
		targetL = strconv.Itoa(r.TargetLikelihood)
		targetC = strconv.Itoa(r.TargetConsequence)
		targetScore = strconv.Itoa(r.TargetScore)
	}
	return []string{
		r.ID, r.Title, r.Type, r.Status, r.Owner,
		strconv.Itoa(r.Likelihood), strconv.Itoa(r.Consequence), strconv.Itoa(r.Score), r.Level,
		targetL, targetC, targetScore, r.TargetLevel,
		r.LastReviewedAt, r.CreatedAt,
	}
}

func renderExportPDF(snap *exportSnapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps Norwegian titles intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(40, 10, "Risk register export")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, fmt.Sprintf("Generated %s, scope %s", snap.GeneratedAt.Format(time.RFC3339), snap.Scope))
	pdf.Ln(10)

	if scopeIncludes(snap.Scope, constants.ExportScopeRisks) {
		pdfSectionTitle(pdf, fmt.Sprintf("Risks (%d)", len(snap.Risks)))
		for _, r := range snap.Risks {
			pdf.Cell(40, 6, tr(fmt.Sprintf("%s  [%s, %s]  L%d x C%d = %d (%s)",
				r.Title, r.Type, r.Status, r.Likelihood, r.Consequence, r.Score, r.Level)))
			pdf.Ln(5)
			if r.TargetLevel != "" {
				pdf.Cell(40, 6, fmt.Sprintf("    target L%d x C%d = %d (%s)",
					r.TargetLikelihood, r.TargetConsequence, r.TargetScore, r.TargetLevel))
				pdf.Ln(5)
			}
		}
		pdf.Ln(6)
	}
	if scopeIncludes(snap.Scope, constants.ExportScopeActions) {
		pdfSectionTitle(pdf, fmt.Sprintf("Actions (%d)", len(snap.Actions)))
		for _, a := range snap.Actions {
			line := fmt.Sprintf("%s  [%s, %s]", a.Title, a.Priority, a.Status)
			if a.DueDate != "" {
				line += "  due " + a.DueDate
			}
			if a.Responsible != "" {
				line += "  (" + a.Responsible + ")"
			}
			pdf.Cell(40, 6, tr(line))
			pdf.Ln(5)
		}
		pdf.Ln(6)
	}
	if scopeIncludes(snap.Scope, constants.ExportScopeSuppliers) {
		pdfSectionTitle(pdf, fmt.Sprintf("Suppliers (%d)", len(snap.Suppliers)))
		for _, s := range snap.Suppliers {
			line := fmt.Sprintf("%s  %s  criticality %d", s.Name, s.Service, s.Criticality)
			if s.ContractExpiry != "" {
				line += "  contract expires " + s.ContractExpiry
			}
			pdf.Cell(40, 6, tr(line))
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.ErrInternal.WithMessage("failed to render PDF export").WithError(err)
	}
	return buf.Bytes(), nil
}

func pdfSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, title)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
}

func renderExportJSON(snap *exportSnapshot) ([]byte, error) {
	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.ErrInternal.WithMessage("failed to render JSON export").WithError(err)
	}
	return content, nil
}

func exportContentType(format string) string {
	switch format {
	case constants.ExportFormatCSV:
		return "text/csv"
	case constants.ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

func exportFilename(scope, format string, now time.Time) string {
	return fmt.Sprintf("rosreg-export-%s-%s.%s", scope, now.Format(exportDateLayout), format)
}
