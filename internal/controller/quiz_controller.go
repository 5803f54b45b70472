package controller

import (
	"errors"
	"farsihub_backend/internal/middleware"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Get godoc
// @Summary Get a quiz for taking
// @Description Student view: question text and options only, correct answers stripped.
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":           quiz.ID,
		"title":        quiz.Title,
		"lectureId":    quiz.LectureID,
		"lectureTitle": quiz.LectureTitle,
		"questions":    quiz.StudentView(),
	})
}

// StartAttempt godoc
// @Summary Start or resume a quiz attempt
// @Description Server-side attempt state; an unfinished attempt is resumed with its answers intact. Attempts expire after two hours of inactivity.
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id}/attempt [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, quiz, err := c.QuizService.StartAttempt(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"attempt":   attempt,
		"questions": quiz.StudentView(),
	})
}

// AnswerRequest defines one answer submission
// swagger:model AnswerRequest
type AnswerRequest struct {
	Selection string `json:"selection" binding:"required"`
}

// Answer godoc
// @Summary Answer the current question
// @Description Records the selection and advances. Advancing without a selection is rejected and the attempt is unchanged.
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   body body AnswerRequest true "Selected option text"
// @Success 200 {object} util.Response{data=service.QuizAttempt}
// @Failure 400 {object} util.Response "No selection"
// @Failure 404 {object} util.Response "No attempt in progress"
// @Failure 409 {object} util.Response "Attempt already finished"
// @Router /api/quizzes/{id}/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "An answer must be selected before advancing")
		return
	}

	attempt, err := c.QuizService.Answer(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req.Selection)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAnswerRequired):
			util.BadRequest(ctx, "An answer must be selected before advancing")
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAttemptFinished):
			util.Error(ctx, 409, "Attempt already finished")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// Finish godoc
// @Summary Finish an attempt and get the score
// @Description Grades the completed attempt and records the score. If the record cannot be written the score is still returned with saved=false.
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response "Attempt not finished"
// @Failure 404 {object} util.Response "No attempt in progress"
// @Router /api/quizzes/{id}/finish [post]
func (c *QuizController) Finish(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.QuizService.FinishAttempt(ctx.Request.Context(), user, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAnswerRequired):
			util.BadRequest(ctx, "Attempt has unanswered questions")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// SubmitRequest defines a complete answer sheet
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers map[int]string `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit a complete answer sheet
// @Description One-shot grading for clients that run the question flow locally. Unanswered questions count as wrong.
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   body body SubmitRequest true "Answers keyed by question index"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(ctx.Request.Context(), user, ctx.Param("id"), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// ListAdmin godoc
// @Summary List quizzes with answers
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/admin/quizzes [get]
func (c *QuizController) ListAdmin(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Create godoc
// @Summary Create a quiz
// @Description Every question needs text, at least two non-blank options, and a correct answer matching one of them.
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QuizInput true "Quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "Invalid quiz"
// @Failure 404 {object} util.Response "Lecture not found"
// @Router /api/admin/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidQuiz):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLectureNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}

// Update godoc
// @Summary Edit a quiz
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   body body service.QuizInput true "Quiz"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "Invalid quiz"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidQuiz):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrLectureNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary Delete a quiz
// @Description Recorded scores for the quiz are kept.
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	if err := c.QuizService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
