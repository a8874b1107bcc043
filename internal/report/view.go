package report

import (
	"gdreport/internal/survey"
)

// Inputs is everything one page view depends on.
type Inputs struct {
	// Table is the loaded survey, nil when loading failed.
	Table *survey.Table
	// LoadErr is the loader error, if any.
	LoadErr error
	// DataFile is the survey file name shown in notices.
	DataFile string
	Schema   survey.Schema
	// Images reports which optional images exist, keyed by file name.
	Images map[string]bool
	// ImageBase is the URL prefix images are served from.
	ImageBase string
	Feedback  FeedbackState
}

// FeedbackState is the outcome of the last feedback submission, if any.
type FeedbackState struct {
	Submitted   bool
	Error       string
	FieldErrors map[string]string
	Values      FormValues
}

// FormValues echoes what the viewer typed so a rejected form can be refilled.
type FormValues struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Rating   string `json:"rating"`
	Comments string `json:"comments"`
}

// View is the fully assembled page.
type View struct {
	PageTitle      string        `json:"page_title"`
	Title          string        `json:"title"`
	Intro          string        `json:"intro"`
	Sidebar        Sidebar       `json:"sidebar"`
	Situation      Section       `json:"situation"`
	Survey         SurveySection `json:"survey"`
	Interpretation Section       `json:"interpretation"`
	Practice       Practice      `json:"practice"`
	BeforeAfter    BeforeAfter   `json:"before_after"`
	Reflection     Section       `json:"reflection"`
	Closing        string        `json:"closing"`
	Feedback       FeedbackForm  `json:"feedback"`
}

// Sidebar is the course summary and the mentor photo.
type Sidebar struct {
	Heading       string `json:"heading"`
	Text          string `json:"text"`
	MentorHeading string `json:"mentor_heading"`
	Mentor        *Image `json:"mentor,omitempty"`
	MentorNotice  string `json:"mentor_notice,omitempty"`
}

// Image is an optional picture that exists on disk.
type Image struct {
	Src     string `json:"src"`
	Caption string `json:"caption"`
}

// Section is a numbered block of Markdown.
type Section struct {
	Number  int    `json:"number"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Practice lists the diary attempts, each shown collapsed.
type Practice struct {
	Number   int       `json:"number"`
	Heading  string    `json:"heading"`
	Intro    string    `json:"intro"`
	Attempts []Attempt `json:"attempts"`
}

// Attempt is one diary entry.
type Attempt struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// BeforeAfter is the two column comparison.
type BeforeAfter struct {
	Number  int    `json:"number"`
	Heading string `json:"heading"`
	Before  Column `json:"before"`
	After   Column `json:"after"`
}

// Column is one side of BeforeAfter.
type Column struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SurveySection holds the survey tables and chart. When Available is false
// only Notice is set. Error is set when the data exists but could not be
// summarized.
type SurveySection struct {
	Number         int                  `json:"number"`
	Heading        string               `json:"heading"`
	Available      bool                 `json:"available"`
	Notice         string               `json:"notice,omitempty"`
	Error          string               `json:"error,omitempty"`
	Intro          string               `json:"intro,omitempty"`
	Raw            *TableView           `json:"raw,omitempty"`
	SummaryHeading string               `json:"summary_heading,omitempty"`
	Summary        *TableView           `json:"summary,omitempty"`
	SummaryData    *survey.SummaryTable `json:"summary_data,omitempty"`
	ChartHeading   string               `json:"chart_heading,omitempty"`
	ChartIntro     string               `json:"chart_intro,omitempty"`
	Chart          *Chart               `json:"chart,omitempty"`
}

// TableView is a table of display strings.
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FeedbackForm is the model of the feedback form.
type FeedbackForm struct {
	Number      int               `json:"number"`
	Heading     string            `json:"heading"`
	Intro       string            `json:"intro"`
	Roles       []string          `json:"roles"`
	Ratings     []int             `json:"ratings"`
	Submitted   bool              `json:"submitted"`
	Success     string            `json:"success,omitempty"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Values      FormValues        `json:"values"`
}
