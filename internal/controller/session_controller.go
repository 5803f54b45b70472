package controller

import (
	"errors"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
	Hub            *service.SessionHub
}

func NewSessionController(sessionService *service.SessionService, hub *service.SessionHub) *SessionController {
	return &SessionController{SessionService: sessionService, Hub: hub}
}

// Get godoc
// @Summary Session snapshot
// @Description Returns the user, the gate outcome the client should route on, and the session revision.
// @Tags session
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/session [get]
func (c *SessionController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	snapshot, err := c.SessionService.Resolve(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, snapshot)
}

// Refresh godoc
// @Summary Re-resolve the session
// @Description Forces a fresh snapshot after a profile mutation, without waiting for a change event.
// @Tags session
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/session/refresh [post]
func (c *SessionController) Refresh(ctx *gin.Context) {
	c.Get(ctx)
}

// Events godoc
// @Summary Session event stream
// @Description Upgrades to a WebSocket that pushes a message whenever the caller's session changes (approval, year selection, profile edits, deletion). The client re-fetches /api/session on each event.
// @Tags session
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/session/events [get]
func (c *SessionController) Events(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Hub.ServeWS(ctx.Writer, ctx.Request, claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
	}
}
