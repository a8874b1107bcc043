package report

// Fixed page copy. Paragraph strings are Markdown.

const (
	PageTitle = "Global Dexterity – Giving Feedback Across Cultures"
	Title     = "Disagreeing or Giving Critical Feedback Across Cultures"

	introText = "This site is my final interactive project for **BUS 222F – Global Dexterity**.\n" +
		"I worked on a situation where I often feel uncomfortable: **disagreeing or giving critical feedback**."

	// MentorImage is the optional sidebar photo, relative to the images directory.
	MentorImage   = "mentor_linh.jpg"
	mentorCaption = "Coach Le Ba Nam Linh (HNBA & Zeit Media)"

	closingText = "Thank you for viewing my Global Dexterity project!"
)

var sidebarContent = Sidebar{
	Heading: "About this project",
	Text: "BUS 222F – Global Dexterity\n\n" +
		"Situation:\n" +
		"Disagreeing or giving critical feedback across cultures\n" +
		"(Vietnamese, American, International).",
	MentorHeading: "My Mentor",
}

var situationSection = Section{
	Number:  1,
	Heading: "My Situation",
	Body: "I grew up in Vietnam, where people usually avoid open disagreement to keep peace and respect.\n" +
		"Because of this, I often find it hard to give feedback directly in group work or class.\n" +
		"In the U.S., I noticed that people expect clearer and more honest feedback and see it as teamwork,\n" +
		"not rudeness. This cultural gap is what I worked on in this project.",
}

const (
	surveyNumber  = 2
	surveyHeading = "Cultural Expectations Survey"
	surveyIntro   = "I created a short survey for Vietnamese, American, and International participants about how they\n" +
		"prefer to give and receive feedback. Here is the raw data from the Google Form:"
	summaryHeading = "Average Scores by Country (from 1 to 5)"
	chartHeading   = "Line Chart – Cultural Differences"
	chartIntro     = "The chart below shows how people from different countries answered key questions about feedback.\n" +
		"Each line represents one question, and the x-axis shows where respondents grew up."
)

var interpretationSection = Section{
	Number:  3,
	Heading: "What the Data Suggests",
	Body: "From the survey, I noticed some patterns:\n\n" +
		"- **Comfort with disagreement** and **directness** tend to be higher for people who grew up in the U.S. and Brazil.\n" +
		"- **Saving face** is more important on average for people from Vietnam and India.\n" +
		"- Acceptability of disagreeing with someone older or higher status also varies by culture.\n\n" +
		"These patterns match my own experience: my Vietnamese background makes me more cautious,\n" +
		"especially about embarrassing others or challenging someone with higher status.",
}

var practiceSection = Practice{
	Number:  4,
	Heading: "My Practice Attempts (Diary Highlights)",
	Intro: "I practiced giving feedback at least three times in real situations (group projects and discussions).\n" +
		"Here are short summaries from my diary.",
	Attempts: []Attempt{
		{
			Title: "Attempt 1 – Very nervous, softened my message",
			Body: "- I disagreed with a teammate but used very soft language and spoke quietly.\n" +
				"- I worried a lot about hurting their feelings.\n" +
				"- They understood my point, but my message was not very clear.\n" +
				"- I realized I was still holding back because of my fear of conflict.",
		},
		{
			Title: "Attempt 2 – Used a simple feedback phrase",
			Body: "- I used a phrase like: *“I see your point, but maybe we can try…”*\n" +
				"- I was more direct, but still respectful.\n" +
				"- My teammate actually appreciated the suggestion and we improved the slide.\n" +
				"- This made me see that clear feedback can be seen as helpful, not rude.",
		},
		{
			Title: "Attempt 3 – More confident and better timing",
			Body: "- I chose a good moment after the meeting to share my feedback one-on-one.\n" +
				"- I kept it short and focused on the work, not the person.\n" +
				"- The conversation felt more like collaboration than conflict.\n" +
				"- I felt more authentic and a bit more confident than before.",
		},
	},
}

var beforeAfterSection = BeforeAfter{
	Number:  5,
	Heading: "Before vs. After",
	Before: Column{
		Heading: "Before the Project",
		Body: "- Stayed quiet when I disagreed.\n" +
			"- Very indirect language.\n" +
			"- Focused mainly on not upsetting anyone.\n" +
			"- Often felt frustrated afterwards for not speaking up.",
	},
	After: Column{
		Heading: "After the Project",
		Body: "- Speak up more often in group work.\n" +
			"- Use simple and clear feedback phrases.\n" +
			"- Still keep tone and respect in mind (especially saving face).\n" +
			"- Feel more balanced between honesty and harmony.",
	},
}

var reflectionSection = Section{
	Number:  6,
	Heading: "What I Learned About Global Dexterity",
	Body: "Working on this situation showed me how strongly culture shapes our comfort with disagreement\n" +
		"and feedback. Through reading *Global Dexterity* (Chapters 1–5), talking with my mentor\n" +
		"Coach Le Ba Nam Linh, collecting survey data, and practicing in real life, I learned that:\n\n" +
		"- It is possible to be more direct **and** still be myself.\n" +
		"- Customizing my language (for example, using gentle openers) helps bridge Vietnamese and U.S. expectations.\n" +
		"- Understanding the “cultural code” makes adaptation feel less scary and more logical.\n\n" +
		"This project helped me build a small but important new skill: I can now disagree and give feedback\n" +
		"in a clearer way while keeping respect and relationships in mind.",
}

const (
	feedbackNumber  = 7
	feedbackHeading = "Leave Feedback"
	feedbackIntro   = "Did this project make sense to you? Your feedback is saved anonymously unless you add your name."
	feedbackThanks  = "Thank you! Your feedback was saved."
)
