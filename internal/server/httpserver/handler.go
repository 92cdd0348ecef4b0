package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type settingRequest struct {
	Value *string `json:"value" binding:"required"`
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request"))
		return
	}

	token, id, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, errorBody("invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	http.SetCookie(c.Writer, auth.SessionCookie(token, s.tokenValidity, s.cookieSecure))
	c.JSON(http.StatusOK, gin.H{"data": id})
}

func (s *HTTPServer) logout(c *gin.Context) {
	http.SetCookie(c.Writer, auth.ClearedSessionCookie(s.cookieSecure))
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) me(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := auth.IdentityFromContext(ctx)

	profile, err := s.users.Profile(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, errorBody("user not found"))
			return
		}
		s.logger.Error(ctx, "profile lookup failed", "user_id", id.ID, "err", err)
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *HTTPServer) listSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.settings.GetAll(c.Request.Context())})
}

func (s *HTTPServer) settingNumber(c *gin.Context) {
	key := c.Param("key")
	v, ok := s.settings.LookupNumber(c.Request.Context(), key)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("setting not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"key": key, "value": v}})
}

func (s *HTTPServer) putSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request"))
		return
	}

	key := c.Param("key")
	if err := s.settings.Set(c.Request.Context(), key, *req.Value); err != nil {
		s.writeSettingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"key": key, "value": *req.Value}})
}

func (s *HTTPServer) deleteSetting(c *gin.Context) {
	if err := s.settings.Reset(c.Request.Context(), c.Param("key")); err != nil {
		s.writeSettingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) writeSettingError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusNotFound, errorBody("setting not found"))
		return
	}
	c.JSON(http.StatusInternalServerError, errorBody("internal error"))
}

func (s *HTTPServer) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) readyz(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.readyTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "readiness check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
