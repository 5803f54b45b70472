package repository

import (
	"farsihub_backend/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) Create(lecture *model.Lecture) error {
	return r.DB.Create(lecture).Error
}

func (r *LectureRepository) FindByID(id string) (*model.Lecture, error) {
	var lecture model.Lecture
	err := r.DB.Where("id = ?", id).First(&lecture).Error
	return &lecture, err
}

// ListAll returns every lecture, newest first. Admin listing.
func (r *LectureRepository) ListAll() ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.DB.Order("created_at DESC").Find(&lectures).Error
	return lectures, err
}

// ListByYear returns the lectures targeting one enrollment year, newest
// first. Student listing.
func (r *LectureRepository) ListByYear(year model.AcademicYear) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.DB.Where("year = ?", year).Order("created_at DESC").Find(&lectures).Error
	return lectures, err
}

func (r *LectureRepository) Update(lecture *model.Lecture) error {
	return r.DB.Save(lecture).Error
}

// Delete removes a lecture and its quizzes in one transaction, so a failed
// delete never leaves quizzes pointing at a missing lecture. Submission
// rows stay; they carry the quiz title and survive as a grade record.
func (r *LectureRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Lecture{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("lecture_id = ?", id).Delete(&model.Quiz{}).Error
	})
}
