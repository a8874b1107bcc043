package report

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"gdreport/internal/feedback"
	"gdreport/internal/survey"
)

// Render builds the page for one view. It never fails: a missing survey file
// becomes a notice, and a survey that cannot be summarized becomes an error
// message inside the survey section.
func Render(in Inputs) View {
	return View{
		PageTitle:      PageTitle,
		Title:          Title,
		Intro:          introText,
		Sidebar:        renderSidebar(in),
		Situation:      situationSection,
		Survey:         renderSurvey(in),
		Interpretation: interpretationSection,
		Practice:       clonePractice(practiceSection),
		BeforeAfter:    beforeAfterSection,
		Reflection:     reflectionSection,
		Closing:        closingText,
		Feedback:       renderFeedback(in.Feedback),
	}
}

func renderSidebar(in Inputs) Sidebar {
	s := sidebarContent
	if in.Images[MentorImage] {
		s.Mentor = &Image{Src: imageURL(in.ImageBase, MentorImage), Caption: mentorCaption}
	} else {
		s.MentorNotice = fmt.Sprintf("Add images/%s to show a mentor photo here.", MentorImage)
	}
	return s
}

func renderSurvey(in Inputs) SurveySection {
	sec := SurveySection{Number: surveyNumber, Heading: surveyHeading}

	if in.LoadErr != nil || in.Table == nil {
		if in.LoadErr == nil || errors.Is(in.LoadErr, survey.ErrDataUnavailable) {
			sec.Notice = UnavailableNotice(in.DataFile)
		} else {
			sec.Error = fmt.Sprintf("Could not read %s: %v", dataFileName(in.DataFile), in.LoadErr)
		}
		return sec
	}

	sec.Available = true
	sec.Intro = surveyIntro
	sec.Raw = &TableView{Columns: append([]string(nil), in.Table.Columns...), Rows: in.Table.Rows()}

	summary, err := survey.AggregateSchema(in.Table, in.Schema)
	if err != nil {
		sec.Error = fmt.Sprintf("Could not summarize the survey: %v", err)
		return sec
	}

	labels := in.Schema.Labels()
	sec.SummaryHeading = summaryHeading
	sec.Summary = summaryView(summary)
	sec.SummaryData = summary
	sec.ChartHeading = chartHeading
	sec.ChartIntro = chartIntro
	sec.Chart = NewChart(summary, labels)
	return sec
}

// UnavailableNotice is shown in place of the survey when the file is missing.
func UnavailableNotice(dataFile string) string {
	name := dataFileName(dataFile)
	return fmt.Sprintf("Could not find '%s'. Place your exported Google Form file in the data folder and rename it to '%s'.", name, name)
}

func summaryView(summary *survey.SummaryTable) *TableView {
	columns := append([]string{summary.GroupColumn}, summary.MetricColumns...)
	rows := make([][]string, len(summary.Rows))
	for i, r := range summary.Rows {
		row := make([]string, 0, len(columns))
		row = append(row, r.Group)
		for _, m := range r.Means {
			row = append(row, formatMean(m))
		}
		rows[i] = row
	}
	return &TableView{Columns: columns, Rows: rows}
}

func renderFeedback(state FeedbackState) FeedbackForm {
	form := FeedbackForm{
		Number:    feedbackNumber,
		Heading:   feedbackHeading,
		Intro:     feedbackIntro,
		Submitted: state.Submitted,
		Error:     state.Error,
		Values:    state.Values,
	}
	for _, r := range feedback.Roles() {
		form.Roles = append(form.Roles, string(r))
	}
	for r := feedback.MinRating; r <= feedback.MaxRating; r++ {
		form.Ratings = append(form.Ratings, r)
	}
	if len(state.FieldErrors) > 0 {
		form.FieldErrors = make(map[string]string, len(state.FieldErrors))
		for k, v := range state.FieldErrors {
			form.FieldErrors[k] = v
		}
	}
	if state.Submitted && state.Error == "" {
		form.Success = feedbackThanks
		form.Values = FormValues{}
	}
	return form
}

func clonePractice(p Practice) Practice {
	p.Attempts = append([]Attempt(nil), p.Attempts...)
	return p
}

func imageURL(base, name string) string {
	if base == "" {
		base = "/images"
	}
	return path.Join(base, name)
}

func dataFileName(dataFile string) string {
	if dataFile == "" {
		return "survey_data.csv"
	}
	return filepath.Base(dataFile)
}
