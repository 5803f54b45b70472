package model

import "time"

// QuizSubmission is one completed quiz attempt. Append-only: rows are never
// updated after creation, and a student may submit the same quiz any number
// of times.
// swagger:model QuizSubmission
type QuizSubmission struct {
	UUIDBase
	QuizID      string         `gorm:"index;type:varchar(36);not null" json:"quizId"`
	QuizTitle   string         `gorm:"size:255" json:"quizTitle"`
	UserID      string         `gorm:"index;type:varchar(36);not null" json:"userId"`
	UserName    string         `gorm:"size:100" json:"userName"`
	Score       float64        `gorm:"not null" json:"score"`
	Answers     map[int]string `gorm:"serializer:json" json:"answers"`
	SubmittedAt time.Time      `gorm:"index" json:"submittedAt"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}
