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
	"time"

	"gorm.io/gorm"
)

const uploadTimeout = 30 * time.Second

type UserService struct {
	userRepo *repository.UserRepository
	storage  *StorageService
	sessions *SessionService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService, sessions *SessionService) *UserService {
	return &UserService{userRepo: userRepo, storage: storage, sessions: sessions}
}

// SelectYear completes onboarding. The year can be set once; after that it
// only changes through an admin edit.
func (s *UserService) SelectYear(ctx context.Context, userID string, year model.AcademicYear) (*model.User, error) {
	if !model.ValidYear(year) {
		return nil, util.ErrInvalidYear
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if user.YearSet() {
		return nil, util.DenyPermission("update", "users/"+userID, map[string]interface{}{"year": year})
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"year": year}); err != nil {
		return nil, err
	}
	user.Year = &year

	s.sessions.Invalidate(ctx, userID, ReasonYearSet)
	return user, nil
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, limit int, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.userRepo.List(page, limit, filter)
}

// Approve unlocks the student area for a pending student. The student's
// open connections learn about it immediately.
func (s *UserService) Approve(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if !user.Approved {
		if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"approved": true}); err != nil {
			return nil, err
		}
		user.Approved = true
		s.sessions.Invalidate(ctx, userID, ReasonApproved)
	}
	return user, nil
}

// UserUpdate is the admin-editable subset of a user.
type UserUpdate struct {
	Name     *string             `json:"name"`
	Role     *model.UserRole     `json:"role"`
	Approved *bool               `json:"approved"`
	Year     *model.AcademicYear `json:"year"`
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, update UserUpdate) (*model.User, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Role != nil {
		if *update.Role != model.Student && *update.Role != model.Admin {
			return nil, util.DenyPermission("update", "users/"+userID, update)
		}
		fields["role"] = *update.Role
	}
	if update.Approved != nil {
		fields["approved"] = *update.Approved
	}
	if update.Year != nil {
		if !model.ValidYear(*update.Year) {
			return nil, util.ErrInvalidYear
		}
		fields["year"] = *update.Year
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrUserNotFound
			}
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	s.sessions.Invalidate(ctx, userID, ReasonProfileUpdated)
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	s.sessions.Invalidate(ctx, userID, ReasonAccountDeleted)
	return nil
}

// UploadAvatar stores a new profile picture and points the user at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, fileHeader *multipart.FileHeader) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrUserNotFound
		}
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%s%s", model.GenerateUUID(), filepath.Ext(fileHeader.Filename))

	uctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	url, err := s.storage.Upload(uctx, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"avatar": url}); err != nil {
		return "", err
	}

	s.sessions.Invalidate(ctx, userID, ReasonProfileUpdated)
	return url, nil
}
