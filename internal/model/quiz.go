package model

// Question is a single multiple-choice question. The authoring form offers
// four option slots but any count >= 2 is valid; blank slots are dropped
// before a question is shown to a student. The correct answer is stored as
// the option text itself, matched with exact string equality when scoring.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// ValidOptions returns the options with empty slots removed.
func (q Question) ValidOptions() []string {
	opts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		if o != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title        string     `gorm:"size:255;not null" json:"title"`
	LectureID    string     `gorm:"index;type:varchar(36);not null" json:"lectureId"`
	LectureTitle string     `gorm:"size:255" json:"lectureTitle"`
	Questions    []Question `gorm:"serializer:json" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// StudentQuestion is the student-facing view of a question: no correct
// answer, blank option slots removed.
type StudentQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// StudentView strips correct answers from a quiz's questions.
func (q *Quiz) StudentView() []StudentQuestion {
	out := make([]StudentQuestion, len(q.Questions))
	for i, question := range q.Questions {
		out[i] = StudentQuestion{
			Text:    question.Text,
			Options: question.ValidOptions(),
		}
	}
	return out
}
