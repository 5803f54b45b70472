package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionValidOptions(t *testing.T) {
	q := Question{
		Text:          "چطور هستید به فارسی یعنی چه؟",
		Options:       []string{"How are you?", "", "Good morning", ""},
		CorrectAnswer: "How are you?",
	}

	opts := q.ValidOptions()
	assert.Equal(t, []string{"How are you?", "Good morning"}, opts)

	// The original slice is untouched.
	assert.Len(t, q.Options, 4)
}

func TestQuizStudentView(t *testing.T) {
	quiz := Quiz{
		Title: "درس اول",
		Questions: []Question{
			{Text: "q1", Options: []string{"a", "b", ""}, CorrectAnswer: "a"},
			{Text: "q2", Options: []string{"c", "d"}, CorrectAnswer: "d"},
		},
	}

	view := quiz.StudentView()
	assert.Len(t, view, 2)
	assert.Equal(t, "q1", view[0].Text)
	assert.Equal(t, []string{"a", "b"}, view[0].Options)
	assert.Equal(t, []string{"c", "d"}, view[1].Options)
}
