package service

import (
	"context"
	"encoding/json"
	"errors"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/repository"
	"farsihub_backend/internal/util"
	"farsihub_backend/pkg/logger"
	"farsihub_backend/pkg/monitoring"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	attemptKeyFmt = "quiz:attempt:%s:%s"
	attemptTTL    = 2 * time.Hour
)

// QuizAttempt is the in-progress state of one student working through one
// quiz, kept out of the database until the attempt completes. It expires
// after attemptTTL of inactivity.
type QuizAttempt struct {
	QuizID    string         `json:"quizId"`
	UserID    string         `json:"userId"`
	Current   int            `json:"current"`
	Answers   map[int]string `json:"answers"`
	Total     int            `json:"total"`
	StartedAt time.Time      `json:"startedAt"`
}

// Finished reports whether every question has been passed.
func (a *QuizAttempt) Finished() bool {
	return a.Current >= a.Total
}

// SubmissionResult is what a student gets back after completing a quiz.
// Saved=false means the score is valid but the grade record could not be
// written; the student is told rather than silently losing the result.
type SubmissionResult struct {
	Score      float64               `json:"score"`
	Saved      bool                  `json:"saved"`
	Submission *model.QuizSubmission `json:"submission,omitempty"`
}

type QuizService struct {
	quizRepo       *repository.QuizRepository
	lectureRepo    *repository.LectureRepository
	submissionRepo *repository.SubmissionRepository
	redis          *redis.Client

	mu            sync.Mutex
	localAttempts map[string]*QuizAttempt
}

func NewQuizService(quizRepo *repository.QuizRepository, lectureRepo *repository.LectureRepository, submissionRepo *repository.SubmissionRepository, rdb *redis.Client) *QuizService {
	return &QuizService{
		quizRepo:       quizRepo,
		lectureRepo:    lectureRepo,
		submissionRepo: submissionRepo,
		redis:          rdb,
		localAttempts:  make(map[string]*QuizAttempt),
	}
}

// ScoreQuiz grades a finished answer sheet. An answer counts only when it
// equals the question's correct answer exactly; the denominator is the
// full question count, so unanswered questions score as wrong. A quiz with
// no questions scores 0.
func ScoreQuiz(questions []model.Question, answers map[int]string) float64 {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(questions))
}

// ValidateQuestions rejects quizzes that cannot be taken: every question
// needs text, at least two non-blank options, and a correct answer that is
// one of those options.
func ValidateQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: at least one question required", util.ErrInvalidQuiz)
	}
	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", util.ErrInvalidQuiz, i+1)
		}
		opts := q.ValidOptions()
		if len(opts) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", util.ErrInvalidQuiz, i+1)
		}
		found := false
		for _, o := range opts {
			if o == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: question %d's correct answer is not among its options", util.ErrInvalidQuiz, i+1)
		}
	}
	return nil
}

func (s *QuizService) Get(id string) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListAll() ([]model.Quiz, error) {
	return s.quizRepo.ListAll()
}

func (s *QuizService) ListByLecture(lectureID string) ([]model.Quiz, error) {
	return s.quizRepo.ListByLecture(lectureID)
}

// QuizInput is the admin-authored form of a quiz.
type QuizInput struct {
	Title     string           `json:"title" binding:"required"`
	LectureID string           `json:"lectureId" binding:"required"`
	Questions []model.Question `json:"questions" binding:"required"`
}

func (s *QuizService) Create(input QuizInput) (*model.Quiz, error) {
	if err := ValidateQuestions(input.Questions); err != nil {
		return nil, err
	}

	lecture, err := s.lectureRepo.FindByID(input.LectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLectureNotFound
		}
		return nil, err
	}

	quiz := &model.Quiz{
		Title:        input.Title,
		LectureID:    lecture.ID,
		LectureTitle: lecture.Title,
		Questions:    input.Questions,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Update(id string, input QuizInput) (*model.Quiz, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := ValidateQuestions(input.Questions); err != nil {
		return nil, err
	}

	quiz.Title = input.Title
	quiz.Questions = input.Questions
	if input.LectureID != quiz.LectureID {
		lecture, err := s.lectureRepo.FindByID(input.LectureID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrLectureNotFound
			}
			return nil, err
		}
		quiz.LectureID = lecture.ID
		quiz.LectureTitle = lecture.Title
	}

	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(id string) error {
	if err := s.quizRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return nil
}

// StartAttempt creates or resumes the student's in-progress state for a
// quiz. Starting over an existing unfinished attempt resumes it instead of
// discarding the answers already given.
func (s *QuizService) StartAttempt(ctx context.Context, userID, quizID string) (*QuizAttempt, *model.Quiz, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, nil, err
	}

	if attempt, err := s.loadAttempt(ctx, userID, quizID); err == nil && !attempt.Finished() {
		return attempt, quiz, nil
	}

	attempt := &QuizAttempt{
		QuizID:    quizID,
		UserID:    userID,
		Current:   0,
		Answers:   make(map[int]string),
		Total:     len(quiz.Questions),
		StartedAt: time.Now(),
	}
	if err := s.saveAttempt(ctx, attempt); err != nil {
		return nil, nil, err
	}
	return attempt, quiz, nil
}

// Answer records the selection for the current question and advances. An
// empty selection changes nothing: the student must pick an option before
// moving on.
func (s *QuizService) Answer(ctx context.Context, userID, quizID, selection string) (*QuizAttempt, error) {
	if selection == "" {
		return nil, util.ErrAnswerRequired
	}

	attempt, err := s.loadAttempt(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if attempt.Finished() {
		return nil, util.ErrAttemptFinished
	}

	attempt.Answers[attempt.Current] = selection
	attempt.Current++

	if err := s.saveAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// FinishAttempt scores the attempt and writes the grade record. The score
// is always returned; a failed write is reported through Saved=false, not
// by withholding the result.
func (s *QuizService) FinishAttempt(ctx context.Context, user *model.User, quizID string) (*SubmissionResult, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.loadAttempt(ctx, user.ID, quizID)
	if err != nil {
		return nil, err
	}
	if !attempt.Finished() {
		return nil, util.ErrAnswerRequired
	}

	result := s.submit(user, quiz, attempt.Answers)
	s.dropAttempt(ctx, user.ID, quizID)
	return result, nil
}

// Submit grades a complete answer sheet in one call, for clients that run
// the question flow locally and send everything at the end.
func (s *QuizService) Submit(ctx context.Context, user *model.User, quizID string, answers map[int]string) (*SubmissionResult, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}
	s.dropAttempt(ctx, user.ID, quizID)
	return s.submit(user, quiz, answers), nil
}

func (s *QuizService) submit(user *model.User, quiz *model.Quiz, answers map[int]string) *SubmissionResult {
	score := ScoreQuiz(quiz.Questions, answers)

	sub := &model.QuizSubmission{
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		UserID:      user.ID,
		UserName:    user.Name,
		Score:       score,
		Answers:     answers,
		SubmittedAt: time.Now(),
	}

	if err := s.submissionRepo.Create(sub); err != nil {
		logger.Log.Error("Submission write failed",
			zap.Error(err),
			zap.String("quizId", quiz.ID),
			zap.String("userId", user.ID))
		monitoring.QuizSubmissionCounter.WithLabelValues("false").Inc()
		return &SubmissionResult{Score: score, Saved: false}
	}

	monitoring.QuizSubmissionCounter.WithLabelValues("true").Inc()
	return &SubmissionResult{Score: score, Saved: true, Submission: sub}
}

// SubmissionsForUser returns a student's own scores, newest first.
func (s *QuizService) SubmissionsForUser(userID string) ([]model.QuizSubmission, error) {
	return s.submissionRepo.ListByUser(userID)
}

// SubmissionsForQuiz pages through every score recorded for one quiz.
func (s *QuizService) SubmissionsForQuiz(quizID string, page, limit int) ([]model.QuizSubmission, int64, error) {
	return s.submissionRepo.ListByQuiz(quizID, page, limit)
}

// Submissions pages through every recorded score.
func (s *QuizService) Submissions(page, limit int) ([]model.QuizSubmission, int64, error) {
	return s.submissionRepo.List(page, limit)
}

func (s *QuizService) attemptKey(userID, quizID string) string {
	return fmt.Sprintf(attemptKeyFmt, userID, quizID)
}

func (s *QuizService) loadAttempt(ctx context.Context, userID, quizID string) (*QuizAttempt, error) {
	if s.redis == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		attempt, ok := s.localAttempts[s.attemptKey(userID, quizID)]
		if !ok {
			return nil, util.ErrAttemptNotFound
		}
		return attempt, nil
	}

	rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	raw, err := s.redis.Get(rctx, s.attemptKey(userID, quizID)).Result()
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	var attempt QuizAttempt
	if err := json.Unmarshal([]byte(raw), &attempt); err != nil {
		return nil, util.ErrAttemptNotFound
	}
	return &attempt, nil
}

func (s *QuizService) saveAttempt(ctx context.Context, attempt *QuizAttempt) error {
	if s.redis == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.localAttempts[s.attemptKey(attempt.UserID, attempt.QuizID)] = attempt
		return nil
	}

	raw, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.redis.Set(rctx, s.attemptKey(attempt.UserID, attempt.QuizID), raw, attemptTTL).Err()
}

func (s *QuizService) dropAttempt(ctx context.Context, userID, quizID string) {
	if s.redis == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.localAttempts, s.attemptKey(userID, quizID))
		return
	}

	rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	s.redis.Del(rctx, s.attemptKey(userID, quizID))
}
