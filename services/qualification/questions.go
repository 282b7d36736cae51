package qualification

// Question kinds
const (
	KindSingle   = "single"   // one correct option index
	KindMultiple = "multiple" // set of correct option indexes, partial credit
	KindText     = "text"     // free text, flat credit above a length threshold
)

const (
	// MinimumScore is the pass threshold out of 100.
	MinimumScore = 70
	// TestDuration is the advertised duration in minutes.
	TestDuration = 30
	// textAnswerMinLength is the length a free-text answer must exceed to
	// earn its flat credit. Placeholder for manual grading.
	textAnswerMinLength = 20
	// textCreditRatio is the share of points granted to a substantial
	// free-text answer.
	textCreditRatio = 0.7
)

// Question is one entry of the fixed trainer-aptitude test.
type Question struct {
	ID             int      `json:"id"`
	Kind           string   `json:"type"`
	Question       string   `json:"question"`
	Points         float64  `json:"points"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  int      `json:"-"`
	CorrectAnswers []int    `json:"-"`
}

// TestQuestions is the versioned question bank. Point totals sum to 100.
var TestQuestions = []Question{
	{
		ID:       1,
		Kind:     KindSingle,
		Question: "What is the primary responsibility of a construction trainer?",
		Points:   10,
		Options: []string{
			"Managing site finances",
			"Training and supervising apprentices",
			"Purchasing materials",
			"Overseeing safety only",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       2,
		Kind:     KindSingle,
		Question: "Which safety equipment is mandatory on a construction site?",
		Points:   10,
		Options: []string{
			"Helmet only",
			"Helmet, safety boots and high-visibility vest",
			"Gloves only",
			"No equipment",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       3,
		Kind:     KindText,
		Question: "Explain in 2-3 sentences how you would organise a masonry course for beginners.",
		Points:   20,
	},
	{
		ID:       4,
		Kind:     KindSingle,
		Question: "What is the first step before starting work on a site?",
		Points:   10,
		Options: []string{
			"Start the works immediately",
			"Draw up a plan and check the permits",
			"Buy all the materials",
			"Hire the crew",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       5,
		Kind:     KindSingle,
		Question: "How long does it usually take to train an apprentice mason?",
		Points:   10,
		Options: []string{
			"1 week",
			"1 month",
			"6 months to 2 years",
			"5 years",
		},
		CorrectAnswer: 2,
	},
	{
		ID:       6,
		Kind:     KindMultiple,
		Question: "Which of these are essential tools for a mason? (several answers possible)",
		Points:   15,
		Options: []string{
			"Trowel",
			"Spirit level",
			"Drill",
			"Soldering iron",
			"Plumb line",
		},
		CorrectAnswers: []int{0, 1, 2, 4},
	},
	{
		ID:       7,
		Kind:     KindSingle,
		Question: "Which certification is commonly required to teach in the construction trades?",
		Points:   10,
		Options: []string{
			"No certification needed",
			"Vocational diploma or equivalent plus professional experience",
			"A university degree only",
			"A driving licence",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       8,
		Kind:     KindText,
		Question: "Describe a difficult situation you handled on a site and how you resolved it.",
		Points:   15,
	},
}

func findQuestion(id int) *Question {
	for i := range TestQuestions {
		if TestQuestions[i].ID == id {
			return &TestQuestions[i]
		}
	}
	return nil
}
