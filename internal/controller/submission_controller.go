package controller

import (
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	QuizService *service.QuizService
}

func NewSubmissionController(quizService *service.QuizService) *SubmissionController {
	return &SubmissionController{QuizService: quizService}
}

// Mine godoc
// @Summary Own quiz scores
// @Description The caller's recorded scores, newest first.
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.QuizSubmission}
// @Router /api/submissions [get]
func (c *SubmissionController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subs, err := c.QuizService.SubmissionsForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// List godoc
// @Summary All recorded scores
// @Description Admin view of every submission, optionally narrowed to one quiz.
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Param   quizId query string false "Narrow to one quiz"
// @Param   userId query string false "Narrow to one student"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/submissions [get]
func (c *SubmissionController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	var (
		subs  []model.QuizSubmission
		total int64
		err   error
	)
	switch {
	case ctx.Query("quizId") != "":
		subs, total, err = c.QuizService.SubmissionsForQuiz(ctx.Query("quizId"), page, limit)
	case ctx.Query("userId") != "":
		subs, err = c.QuizService.SubmissionsForUser(ctx.Query("userId"))
		total = int64(len(subs))
	default:
		subs, total, err = c.QuizService.Submissions(page, limit)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: subs, Total: total, Page: page, Limit: limit})
}
