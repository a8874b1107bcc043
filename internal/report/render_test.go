package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdreport/internal/survey"
)

func testSchema() survey.Schema {
	return survey.Schema{
		GroupColumn: "country",
		Metrics: []survey.Metric{
			{Key: "comfort", Column: "comfort", Label: "Comfort"},
			{Key: "direct", Column: "direct", Label: "Directness"},
		},
	}
}

func testTable() *survey.Table {
	return survey.NewTable([]string{"country", "comfort", "direct"}, [][]string{
		{"Vietnam", "2", "2"},
		{"Vietnam", "4", "3"},
		{"US", "5", "5"},
	})
}

func TestRender_WithSurvey(t *testing.T) {
	view := Render(Inputs{
		Table:    testTable(),
		DataFile: "data/survey_data.csv",
		Schema:   testSchema(),
	})

	sec := view.Survey
	require.True(t, sec.Available)
	assert.Empty(t, sec.Notice)
	assert.Empty(t, sec.Error)
	assert.Equal(t, []string{"country", "comfort", "direct"}, sec.Raw.Columns)
	assert.Len(t, sec.Raw.Rows, 3)

	want := &TableView{
		Columns: []string{"country", "comfort", "direct"},
		Rows: [][]string{
			{"US", "5.00", "5.00"},
			{"Vietnam", "3.00", "2.50"},
		},
	}
	if diff := cmp.Diff(want, sec.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, sec.SummaryData)
	assert.Equal(t, []string{"US", "Vietnam"}, sec.SummaryData.Groups())

	require.NotNil(t, sec.Chart)
	require.Len(t, sec.Chart.Series, 2)
	assert.Equal(t, "Comfort", sec.Chart.Series[0].Label)
	assert.Equal(t, "Directness", sec.Chart.Series[1].Label)
}

func TestRender_MissingSurvey(t *testing.T) {
	view := Render(Inputs{
		LoadErr:  fmt.Errorf("%w: data/survey_data.csv", survey.ErrDataUnavailable),
		DataFile: "data/survey_data.csv",
		Schema:   testSchema(),
	})

	sec := view.Survey
	assert.False(t, sec.Available)
	assert.Equal(t, "Could not find 'survey_data.csv'. Place your exported Google Form file in the data folder and rename it to 'survey_data.csv'.", sec.Notice)
	assert.Empty(t, sec.Error)
	assert.Nil(t, sec.Raw)
	assert.Nil(t, sec.Summary)
	assert.Nil(t, sec.Chart)

	// The rest of the page still renders.
	assert.Equal(t, Title, view.Title)
	assert.Len(t, view.Practice.Attempts, 3)
	assert.Equal(t, closingText, view.Closing)
}

func TestRender_SchemaMismatch(t *testing.T) {
	table := survey.NewTable([]string{"country", "comfort"}, [][]string{{"US", "5"}})

	view := Render(Inputs{Table: table, Schema: testSchema()})

	sec := view.Survey
	assert.True(t, sec.Available)
	assert.NotNil(t, sec.Raw, "raw data is still shown")
	assert.Contains(t, sec.Error, `"direct"`)
	assert.Nil(t, sec.Summary, "no partial aggregation")
	assert.Nil(t, sec.Chart)
}

func TestRender_MalformedSurvey(t *testing.T) {
	view := Render(Inputs{
		LoadErr:  fmt.Errorf("%w: wrong number of fields", survey.ErrMalformed),
		DataFile: "survey_data.csv",
		Schema:   testSchema(),
	})

	assert.False(t, view.Survey.Available)
	assert.Empty(t, view.Survey.Notice)
	assert.Contains(t, view.Survey.Error, "wrong number of fields")
}

func TestRender_MentorImage(t *testing.T) {
	without := Render(Inputs{Schema: testSchema()})
	assert.Nil(t, without.Sidebar.Mentor)
	assert.Equal(t, "Add images/mentor_linh.jpg to show a mentor photo here.", without.Sidebar.MentorNotice)

	with := Render(Inputs{Schema: testSchema(), Images: map[string]bool{MentorImage: true}})
	require.NotNil(t, with.Sidebar.Mentor)
	assert.Equal(t, "/images/mentor_linh.jpg", with.Sidebar.Mentor.Src)
	assert.Equal(t, "Coach Le Ba Nam Linh (HNBA & Zeit Media)", with.Sidebar.Mentor.Caption)
	assert.Empty(t, with.Sidebar.MentorNotice)
}

func TestRender_FeedbackForm(t *testing.T) {
	tests := []struct {
		name        string
		state       FeedbackState
		wantSuccess string
		wantValues  FormValues
	}{
		{
			name: "fresh form",
		},
		{
			name:        "after successful submission",
			state:       FeedbackState{Submitted: true, Values: FormValues{Name: "Linh"}},
			wantSuccess: feedbackThanks,
		},
		{
			name: "rejected submission keeps values",
			state: FeedbackState{
				Submitted:   true,
				Error:       "Please fix the highlighted fields.",
				FieldErrors: map[string]string{"rating": "rating must be between 1 and 5"},
				Values:      FormValues{Name: "Linh", Role: "Professor", Rating: "9"},
			},
			wantValues: FormValues{Name: "Linh", Role: "Professor", Rating: "9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := Render(Inputs{Schema: testSchema(), Feedback: tt.state}).Feedback

			assert.Equal(t, []string{"Professor", "Classmate", "Friend", "Other"}, form.Roles)
			assert.Equal(t, []int{1, 2, 3, 4, 5}, form.Ratings)
			assert.Equal(t, tt.wantSuccess, form.Success)
			assert.Equal(t, tt.wantValues, form.Values)
			assert.Equal(t, tt.state.FieldErrors, form.FieldErrors)
		})
	}
}

func TestRender_Pure(t *testing.T) {
	in := Inputs{Table: testTable(), Schema: testSchema(), Images: map[string]bool{MentorImage: true}}

	first := Render(in)
	first.Practice.Attempts[0].Title = "changed"
	second := Render(in)

	assert.NotEqual(t, "changed", second.Practice.Attempts[0].Title)

	a, err := json.Marshal(Render(in))
	require.NoError(t, err)
	b, err := json.Marshal(Render(in))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(Render(Inputs{Table: testTable(), Schema: testSchema()}))

	assert.True(t, strings.HasPrefix(md, "# "+Title))
	assert.Contains(t, md, "## 2. Cultural Expectations Survey")
	assert.Contains(t, md, "| Vietnam | 3.00 | 2.50 |")
	assert.Contains(t, md, "### Attempt 2 – Used a simple feedback phrase")
	assert.Contains(t, md, "**"+closingText+"**")

	missing := Markdown(Render(Inputs{LoadErr: survey.ErrDataUnavailable, Schema: testSchema()}))
	assert.Contains(t, missing, "**Warning:** Could not find 'survey_data.csv'")
}
