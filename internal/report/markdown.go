package report

import (
	"fmt"
	"strings"
)

// Markdown renders the whole view as one Markdown document. The chart is
// replaced by the summary table it is drawn from.
func Markdown(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n%s\n\n", v.Title, v.Intro)

	fmt.Fprintf(&b, "> **%s**\n>\n", v.Sidebar.Heading)
	for _, line := range strings.Split(v.Sidebar.Text, "\n") {
		fmt.Fprintf(&b, "> %s\n", line)
	}
	if v.Sidebar.Mentor != nil {
		fmt.Fprintf(&b, ">\n> %s: %s\n\n", v.Sidebar.MentorHeading, v.Sidebar.Mentor.Caption)
	} else {
		fmt.Fprintf(&b, ">\n> %s: _%s_\n\n", v.Sidebar.MentorHeading, v.Sidebar.MentorNotice)
	}

	writeSection(&b, v.Situation)

	fmt.Fprintf(&b, "## %d. %s\n\n", v.Survey.Number, v.Survey.Heading)
	switch {
	case !v.Survey.Available && v.Survey.Error != "":
		fmt.Fprintf(&b, "**Error:** %s\n\n", v.Survey.Error)
	case !v.Survey.Available:
		fmt.Fprintf(&b, "**Warning:** %s\n\n", v.Survey.Notice)
	default:
		fmt.Fprintf(&b, "%s\n\n", v.Survey.Intro)
		writeTable(&b, v.Survey.Raw)
		if v.Survey.Error != "" {
			fmt.Fprintf(&b, "**Error:** %s\n\n", v.Survey.Error)
			break
		}
		fmt.Fprintf(&b, "### %s\n\n", v.Survey.SummaryHeading)
		writeTable(&b, v.Survey.Summary)
	}

	writeSection(&b, v.Interpretation)

	fmt.Fprintf(&b, "## %d. %s\n\n%s\n\n", v.Practice.Number, v.Practice.Heading, v.Practice.Intro)
	for _, a := range v.Practice.Attempts {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", a.Title, a.Body)
	}

	fmt.Fprintf(&b, "## %d. %s\n\n", v.BeforeAfter.Number, v.BeforeAfter.Heading)
	fmt.Fprintf(&b, "### %s\n\n%s\n\n", v.BeforeAfter.Before.Heading, v.BeforeAfter.Before.Body)
	fmt.Fprintf(&b, "### %s\n\n%s\n\n", v.BeforeAfter.After.Heading, v.BeforeAfter.After.Body)

	writeSection(&b, v.Reflection)

	fmt.Fprintf(&b, "**%s**\n", v.Closing)
	return b.String()
}

func writeSection(b *strings.Builder, s Section) {
	fmt.Fprintf(b, "## %d. %s\n\n%s\n\n", s.Number, s.Heading, s.Body)
}

func writeTable(b *strings.Builder, t *TableView) {
	if t == nil || len(t.Columns) == 0 {
		return
	}
	b.WriteString("| " + strings.Join(escapeCells(t.Columns), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")
	for _, row := range t.Rows {
		b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}
