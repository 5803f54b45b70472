package service

import (
	"context"
	"errors"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleQuestions() []model.Question {
	return []model.Question{
		{Text: "q1", Options: []string{"a", "b", "c"}, CorrectAnswer: "a"},
		{Text: "q2", Options: []string{"d", "e"}, CorrectAnswer: "e"},
		{Text: "q3", Options: []string{"f", "g"}, CorrectAnswer: "f"},
		{Text: "q4", Options: []string{"h", "i"}, CorrectAnswer: "i"},
	}
}

func TestScoreQuiz(t *testing.T) {
	questions := sampleQuestions()

	tests := []struct {
		name    string
		answers map[int]string
		want    float64
	}{
		{name: "all correct", answers: map[int]string{0: "a", 1: "e", 2: "f", 3: "i"}, want: 100},
		{name: "all wrong", answers: map[int]string{0: "b", 1: "d", 2: "g", 3: "h"}, want: 0},
		{name: "half correct", answers: map[int]string{0: "a", 1: "e", 2: "g", 3: "h"}, want: 50},
		{name: "three of four", answers: map[int]string{0: "a", 1: "e", 2: "f", 3: "h"}, want: 75},
		{name: "unanswered count as wrong", answers: map[int]string{0: "a"}, want: 25},
		{name: "empty sheet", answers: map[int]string{}, want: 0},
		{name: "nil sheet", answers: nil, want: 0},
		{name: "near miss is wrong", answers: map[int]string{0: "A", 1: "e ", 2: "f", 3: "i"}, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQuiz(questions, tt.answers)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestScoreQuizTwoQuestionQuiz(t *testing.T) {
	questions := []model.Question{
		{Text: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
		{Text: "2 + 2?", Options: []string{"4", "5"}, CorrectAnswer: "4"},
	}

	score := ScoreQuiz(questions, map[int]string{0: "Paris", 1: "5"})
	assert.Equal(t, 50.0, score)
}

func TestScoreQuizNoQuestions(t *testing.T) {
	assert.Equal(t, 0.0, ScoreQuiz(nil, map[int]string{0: "a"}))
	assert.Equal(t, 0.0, ScoreQuiz([]model.Question{}, nil))
}

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []model.Question
		wantErr   bool
	}{
		{name: "valid", questions: sampleQuestions(), wantErr: false},
		{name: "empty quiz", questions: nil, wantErr: true},
		{name: "missing text", questions: []model.Question{
			{Options: []string{"a", "b"}, CorrectAnswer: "a"},
		}, wantErr: true},
		{name: "single option", questions: []model.Question{
			{Text: "q", Options: []string{"a", "", ""}, CorrectAnswer: "a"},
		}, wantErr: true},
		{name: "correct answer not an option", questions: []model.Question{
			{Text: "q", Options: []string{"a", "b"}, CorrectAnswer: "c"},
		}, wantErr: true},
		{name: "correct answer only in blank slot", questions: []model.Question{
			{Text: "q", Options: []string{"a", "b", ""}, CorrectAnswer: ""},
		}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestions(tt.questions)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrInvalidQuiz)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newLocalQuizService() *QuizService {
	return NewQuizService(nil, nil, nil, nil)
}

func seedAttempt(t *testing.T, s *QuizService, userID, quizID string, total int) *QuizAttempt {
	t.Helper()
	attempt := &QuizAttempt{
		QuizID:    quizID,
		UserID:    userID,
		Answers:   make(map[int]string),
		Total:     total,
		StartedAt: time.Now(),
	}
	if err := s.saveAttempt(context.Background(), attempt); err != nil {
		t.Fatalf("saveAttempt() error = %v", err)
	}
	return attempt
}

func TestAnswerAdvances(t *testing.T) {
	s := newLocalQuizService()
	seedAttempt(t, s, "u1", "quiz1", 2)
	ctx := context.Background()

	attempt, err := s.Answer(ctx, "u1", "quiz1", "option a")
	assert.NoError(t, err)
	assert.Equal(t, 1, attempt.Current)
	assert.Equal(t, "option a", attempt.Answers[0])
	assert.False(t, attempt.Finished())

	attempt, err = s.Answer(ctx, "u1", "quiz1", "option b")
	assert.NoError(t, err)
	assert.True(t, attempt.Finished())
}

func TestAnswerWithoutSelection(t *testing.T) {
	s := newLocalQuizService()
	seedAttempt(t, s, "u1", "quiz1", 2)
	ctx := context.Background()

	_, err := s.Answer(ctx, "u1", "quiz1", "")
	assert.ErrorIs(t, err, util.ErrAnswerRequired)

	// The stored attempt is untouched.
	stored, err := s.loadAttempt(ctx, "u1", "quiz1")
	assert.NoError(t, err)
	assert.Equal(t, 0, stored.Current)
	assert.Empty(t, stored.Answers)
}

func TestAnswerAfterFinish(t *testing.T) {
	s := newLocalQuizService()
	seedAttempt(t, s, "u1", "quiz1", 1)
	ctx := context.Background()

	_, err := s.Answer(ctx, "u1", "quiz1", "a")
	assert.NoError(t, err)

	_, err = s.Answer(ctx, "u1", "quiz1", "b")
	assert.ErrorIs(t, err, util.ErrAttemptFinished)
}

func TestAnswerWithoutAttempt(t *testing.T) {
	s := newLocalQuizService()

	_, err := s.Answer(context.Background(), "u1", "quiz1", "a")
	if !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("Answer() error = %v, want %v", err, util.ErrAttemptNotFound)
	}
}

func TestAttemptsAreIsolatedPerUser(t *testing.T) {
	s := newLocalQuizService()
	seedAttempt(t, s, "u1", "quiz1", 2)
	seedAttempt(t, s, "u2", "quiz1", 2)
	ctx := context.Background()

	_, err := s.Answer(ctx, "u1", "quiz1", "a")
	assert.NoError(t, err)

	other, err := s.loadAttempt(ctx, "u2", "quiz1")
	assert.NoError(t, err)
	assert.Equal(t, 0, other.Current)
}
