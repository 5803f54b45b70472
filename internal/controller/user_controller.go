package controller

import (
	"errors"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/repository"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// SelectYearRequest defines the onboarding payload
// swagger:model SelectYearRequest
type SelectYearRequest struct {
	Year model.AcademicYear `json:"year" binding:"required,oneof=first second third fourth"`
}

// SelectYear godoc
// @Summary Pick an enrollment year
// @Description Completes onboarding. The year is set once; later changes go through an admin.
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SelectYearRequest true "Enrollment year"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "Invalid year"
// @Failure 403 {object} util.Response "Year already set"
// @Router /api/user/year [put]
func (c *UserController) SelectYear(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SelectYearRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SelectYear(ctx.Request.Context(), claims.UserID, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidYear):
			util.BadRequest(ctx, "Invalid enrollment year")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUserNotFound):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "Image file"
// @Success 200 {object} util.Response{data=object} "Avatar URL"
// @Failure 400 {object} util.Response "Missing or non-image file"
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID, fileHeader)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Unauthorized(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

// List godoc
// @Summary List users
// @Description Admin listing with optional filters. pending=true narrows to students awaiting approval.
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Param   pending query bool false "Only unapproved students"
// @Param   role query string false "Filter by role"
// @Param   year query string false "Filter by enrollment year"
// @Param   search query string false "Name or email substring"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.UserFilter{
		Role:        ctx.Query("role"),
		PendingOnly: ctx.Query("pending") == "true",
		Search:      ctx.Query("search"),
	}
	if year := ctx.Query("year"); year != "" {
		if !model.ValidYear(model.AcademicYear(year)) {
			util.BadRequest(ctx, "Invalid enrollment year")
			return
		}
		filter.Year = year
	}

	users, total, err := c.UserService.ListUsers(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get one user
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	user, err := c.UserService.GetUser(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// Approve godoc
// @Summary Approve a pending student
// @Description Unlocks the student area. The student's open connections are notified immediately.
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/users/{id}/approve [post]
func (c *UserController) Approve(ctx *gin.Context) {
	user, err := c.UserService.Approve(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// Update godoc
// @Summary Edit a user
// @Description Partial update of name, role, approval, or enrollment year.
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "User ID"
// @Param   body body service.UserUpdate true "Fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "Invalid payload"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	var req service.UserUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidYear):
			util.BadRequest(ctx, "Invalid enrollment year")
		case errors.Is(err, util.ErrPermissionDenied):
			util.BadRequest(ctx, "Invalid role")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "User ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	if err := c.UserService.DeleteUser(ctx.Request.Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
