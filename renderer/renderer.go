// Package renderer formats commission reports and quota ledgers as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/commission"
)

//go:embed templates/*.md
var templates embed.FS

// Report is the data of the commissions report template.
type Report struct {
	Currency string
	Rows     []Row
	Count    int
	Total    string
	// Charged counts transactions with a non zero commission.
	Charged int
}

// Row is a line of the commissions report.
type Row struct {
	Index      int
	Date       string
	Account    string
	Holder     string
	Direction  string
	Amount     string
	Commission string
}

// NewReport builds the report of a processed batch.
func NewReport(cs []commission.Commission, currency string) *Report {
	r := &Report{Currency: currency, Count: len(cs)}
	for i, c := range cs {
		tx := c.Transaction
		r.Rows = append(r.Rows, Row{
			Index:      i + 1,
			Date:       tx.Date.String(),
			Account:    tx.Account,
			Holder:     holderName(tx.Holder),
			Direction:  directionName(tx.Direction),
			Amount:     commission.M(tx.Amount, currency).String(),
			Commission: c.Amount.String(),
		})
		if !c.Amount.IsZero() {
			r.Charged++
		}
	}
	r.Total = commission.Total(cs, currency).Display()
	return r
}

// RenderCommissions renders the commissions of a batch to a markdown string.
func RenderCommissions(cs []commission.Commission, currency string) string {
	partials := map[string]string{
		"commissions_title": "commissions_title.md",
		"commissions_rows":  "commissions_rows.md",
	}
	return renderTemplate("commissions", "commissions.md", partials, NewReport(cs, currency))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

func holderName(h commission.Holder) string {
	switch h {
	case commission.Individual:
		return "individual"
	case commission.Organization:
		return "organization"
	default:
		return string(h)
	}
}

func directionName(d commission.Direction) string {
	switch d {
	case commission.Deposit:
		return "deposit"
	case commission.Withdrawal:
		return "withdrawal"
	default:
		return string(d)
	}
}
