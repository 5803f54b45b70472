package service

import (
	"context"
	"errors"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/repository"
	"farsihub_backend/internal/util"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"gorm.io/gorm"
)

type LectureService struct {
	lectureRepo *repository.LectureRepository
	storage     *StorageService
}

func NewLectureService(lectureRepo *repository.LectureRepository, storage *StorageService) *LectureService {
	return &LectureService{lectureRepo: lectureRepo, storage: storage}
}

// ListForYear returns the lectures a student in the given year should see.
func (s *LectureService) ListForYear(year model.AcademicYear) ([]model.Lecture, error) {
	if !model.ValidYear(year) {
		return nil, util.ErrInvalidYear
	}
	return s.lectureRepo.ListByYear(year)
}

func (s *LectureService) ListAll() ([]model.Lecture, error) {
	return s.lectureRepo.ListAll()
}

func (s *LectureService) Get(id string) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLectureNotFound
		}
		return nil, err
	}
	return lecture, nil
}

// LectureInput is the admin-authored part of a lecture; the PDF arrives as
// a separate multipart file.
type LectureInput struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Year        model.AcademicYear `json:"year"`
}

func (s *LectureService) Create(ctx context.Context, input LectureInput, pdf *multipart.FileHeader) (*model.Lecture, error) {
	if !model.ValidYear(input.Year) {
		return nil, util.ErrInvalidYear
	}

	lecture := &model.Lecture{
		Title:       input.Title,
		Description: input.Description,
		Year:        input.Year,
	}

	if pdf != nil {
		url, err := s.storePDF(ctx, pdf)
		if err != nil {
			return nil, err
		}
		lecture.PDFURL = url
	}

	if err := s.lectureRepo.Create(lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (s *LectureService) Update(ctx context.Context, id string, input LectureInput, pdf *multipart.FileHeader) (*model.Lecture, error) {
	lecture, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		lecture.Title = input.Title
	}
	if input.Description != "" {
		lecture.Description = input.Description
	}
	if input.Year != "" {
		if !model.ValidYear(input.Year) {
			return nil, util.ErrInvalidYear
		}
		lecture.Year = input.Year
	}

	if pdf != nil {
		url, err := s.storePDF(ctx, pdf)
		if err != nil {
			return nil, err
		}
		lecture.PDFURL = url
	}

	if err := s.lectureRepo.Update(lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (s *LectureService) Delete(id string) error {
	if err := s.lectureRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLectureNotFound
		}
		return err
	}
	return nil
}

func (s *LectureService) storePDF(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimePDF})
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("lectures/%s%s", model.GenerateUUID(), filepath.Ext(fileHeader.Filename))

	uctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	return s.storage.Upload(uctx, filename, file, fileHeader.Size, mimeType)
}
