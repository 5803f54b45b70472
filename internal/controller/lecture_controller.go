package controller

import (
	"errors"
	"farsihub_backend/internal/middleware"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LectureController struct {
	LectureService *service.LectureService
	QuizService    *service.QuizService
}

func NewLectureController(lectureService *service.LectureService, quizService *service.QuizService) *LectureController {
	return &LectureController{LectureService: lectureService, QuizService: quizService}
}

// List godoc
// @Summary List lectures
// @Description Students see the lectures of their own enrollment year; admins see everything.
// @Tags lectures
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Lecture}
// @Failure 403 {object} util.Response "Not admitted to the student area"
// @Router /api/lectures [get]
func (c *LectureController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if user.Role == model.Admin {
		lectures, err := c.LectureService.ListAll()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, lectures)
		return
	}

	lectures, err := c.LectureService.ListForYear(*user.Year)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lectures)
}

// Get godoc
// @Summary Get one lecture with its quizzes
// @Tags lectures
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Lecture ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/lectures/{id} [get]
func (c *LectureController) Get(ctx *gin.Context) {
	lecture, err := c.LectureService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrLectureNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	quizzes, err := c.QuizService.ListByLecture(lecture.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	// Students never receive correct answers.
	views := make([]gin.H, len(quizzes))
	for i := range quizzes {
		views[i] = gin.H{
			"id":        quizzes[i].ID,
			"title":     quizzes[i].Title,
			"questions": len(quizzes[i].Questions),
		}
	}

	util.Success(ctx, gin.H{
		"lecture": lecture,
		"quizzes": views,
	})
}

// Create godoc
// @Summary Create a lecture
// @Description Multipart form with the lecture fields and an optional PDF.
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   title formData string true "Title"
// @Param   description formData string false "Description"
// @Param   year formData string true "Enrollment year (first|second|third|fourth)"
// @Param   pdf formData file false "Lecture PDF"
// @Success 201 {object} util.Response{data=model.Lecture}
// @Failure 400 {object} util.Response "Invalid payload or non-PDF file"
// @Router /api/admin/lectures [post]
func (c *LectureController) Create(ctx *gin.Context) {
	input := service.LectureInput{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Year:        model.AcademicYear(ctx.PostForm("year")),
	}
	if input.Title == "" {
		util.BadRequest(ctx, "Title is required")
		return
	}

	pdf, _ := ctx.FormFile("pdf")

	lecture, err := c.LectureService.Create(ctx.Request.Context(), input, pdf)
	if err != nil {
		if errors.Is(err, util.ErrInvalidYear) {
			util.BadRequest(ctx, "Invalid enrollment year")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, lecture)
}

// Update godoc
// @Summary Edit a lecture
// @Description Multipart form; omitted fields keep their value, a new PDF replaces the old one.
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Lecture ID"
// @Param   title formData string false "Title"
// @Param   description formData string false "Description"
// @Param   year formData string false "Enrollment year"
// @Param   pdf formData file false "Replacement PDF"
// @Success 200 {object} util.Response{data=model.Lecture}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/lectures/{id} [put]
func (c *LectureController) Update(ctx *gin.Context) {
	input := service.LectureInput{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Year:        model.AcademicYear(ctx.PostForm("year")),
	}
	pdf, _ := ctx.FormFile("pdf")

	lecture, err := c.LectureService.Update(ctx.Request.Context(), ctx.Param("id"), input, pdf)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLectureNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidYear):
			util.BadRequest(ctx, "Invalid enrollment year")
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, lecture)
}

// Delete godoc
// @Summary Delete a lecture
// @Description Removes the lecture and its quizzes together. Recorded scores are kept.
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Lecture ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/lectures/{id} [delete]
func (c *LectureController) Delete(ctx *gin.Context) {
	if err := c.LectureService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrLectureNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
