package repository

import (
	"farsihub_backend/internal/model"

	"gorm.io/gorm"
)

// SubmissionRepository is append-only: submissions are created and listed,
// never updated.
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(sub *model.QuizSubmission) error {
	return r.DB.Create(sub).Error
}

// ListByUser returns a student's submissions, most recent first.
func (r *SubmissionRepository) ListByUser(userID string) ([]model.QuizSubmission, error) {
	var subs []model.QuizSubmission
	err := r.DB.Where("user_id = ?", userID).Order("submitted_at DESC").Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByQuiz(quizID string, page, limit int) ([]model.QuizSubmission, int64, error) {
	q := r.DB.Model(&model.QuizSubmission{}).Where("quiz_id = ?", quizID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.QuizSubmission
	err := q.Order("submitted_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subs).Error
	return subs, total, err
}

func (r *SubmissionRepository) List(page, limit int) ([]model.QuizSubmission, int64, error) {
	var total int64
	if err := r.DB.Model(&model.QuizSubmission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.QuizSubmission
	err := r.DB.Order("submitted_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subs).Error
	return subs, total, err
}
