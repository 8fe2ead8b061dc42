package renderer

import (
	"fmt"
	"strings"

	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// Markdown lays out doc as pandoc markdown: header, summary, experience, education, skills.
func Markdown(doc resume.Document) (md string) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(doc.Contact.Name))

	contact := []string{escape(doc.Contact.Email), escape(doc.Contact.Phone)}
	for _, link := range doc.Contact.Links {
		contact = append(contact, escape(link))
	}
	b.WriteString(strings.Join(contact, " | "))
	b.WriteString("\n\n")

	if strings.TrimSpace(doc.Summary) != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(escape(doc.Summary))
		b.WriteString("\n\n")
	}

	b.WriteString("## Experience\n\n")
	for _, entry := range doc.Experience {
		fmt.Fprintf(&b, "### %s, %s\n\n", escape(entry.Title), escape(entry.Organization))
		fmt.Fprintf(&b, "*%s*\n\n", escape(entry.DateRange))
		for _, bullet := range entry.Bullets {
			fmt.Fprintf(&b, "- %s\n", escape(bullet))
		}
		b.WriteString("\n")
	}

	if len(doc.Education) > 0 {
		b.WriteString("## Education\n\n")
		for _, edu := range doc.Education {
			fmt.Fprintf(&b, "**%s**, %s (%s)\n\n", escape(edu.Credential), escape(edu.Institution), escape(edu.DateRange))
		}
	}

	if len(doc.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		skills := make([]string, 0, len(doc.Skills))
		for _, skill := range doc.Skills {
			skills = append(skills, escape(skill))
		}
		b.WriteString(strings.Join(skills, ", "))
		b.WriteString("\n")
	}

	md = b.String()
	return md
}

//nolint:gochecknoglobals // Read-only replacer
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"$", `\$`,
)

// escape keeps resume text from being read as markdown or LaTeX math.
func escape(s string) (out string) {
	out = markdownEscaper.Replace(strings.TrimSpace(s))
	return out
}
