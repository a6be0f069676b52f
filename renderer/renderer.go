package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates is the folder of markdown templates.
var templates, _ = fs.Sub(templatesFS, "templates")

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
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
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

// ReviewOptions holds configuration for rendering a review.
type ReviewOptions struct {
	SkipSource bool // Do not render the statement section.
	OnlyIssues bool // Only render the rows that are incomplete or flagged.
}

// RenderReview renders the review table to a markdown string.
func RenderReview(r *Review, opts ReviewOptions) string {
	partials := map[string]string{
		"review_source": "review_source.md",
		"review_rows":   "review_rows.md",
		"review_issues": "review_issues.md",
	}
	if opts.SkipSource {
		partials["review_source"] = ""
	}
	if opts.OnlyIssues {
		r = r.issues()
	}
	return renderTemplate("review", "review.md", partials, r)
}

// RenderOutcome renders the result of a commit to a markdown string.
func RenderOutcome(o *Outcome) string {
	return renderTemplate("outcome", "outcome.md", nil, o)
}
