// Package renderer turns ledger data into markdown documents, mostly tables,
// meant to be printed on a terminal or saved as files.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/jelsonhosly/ledger"
)

//go:embed *.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell":  cell,
	"short": short,
	"date":  date,
	"subcategories": func(subs []ledger.Subcategory) string {
		names := make([]string, 0, len(subs))
		for _, s := range subs {
			names = append(names, s.Name)
		}
		return cell(strings.Join(names, ", "))
	},
}

// Accounts renders every account balance and their sum in the main currency.
func Accounts(nw ledger.NetWorth) string {
	return renderTemplate("accounts", "accounts.md", nil, nw)
}

// Categories renders the category list with their subcategories.
func Categories(categories []ledger.Category) string {
	return renderTemplate("categories", "categories.md", nil, categories)
}

// Currencies renders the currency table.
func Currencies(currencies []ledger.Currency) string {
	return renderTemplate("currencies", "currencies.md", nil, currencies)
}

// Summary renders the income and expense of a period.
func Summary(s ledger.Summary) string {
	partials := map[string]string{
		"summary_categories": "summary_categories.md",
	}
	if len(s.Categories) == 0 {
		partials["summary_categories"] = ""
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
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

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// short returns the first 8 characters of an id, enough to select it.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func date(t time.Time) string {
	if t.IsZero() {
		return "…"
	}
	return t.Format(time.DateOnly)
}
