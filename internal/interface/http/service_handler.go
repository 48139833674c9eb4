package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/application"
	"github.com/oksasatya/user-profile-service/pkg/response"
)

// ServiceHandler serves peer services authenticated by the shared token.
type ServiceHandler struct {
	Svc    *application.Service
	Logger logrus.FieldLogger
}

func NewServiceHandler(svc *application.Service, logger logrus.FieldLogger) *ServiceHandler {
	return &ServiceHandler{Svc: svc, Logger: logger}
}

type adjustStatisticQuery struct {
	UserID   string `form:"user_id" binding:"required,uuid"`
	Field    string `form:"field" binding:"required"`
	Increase *bool  `form:"increase"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *ServiceHandler) GetProfile(c *gin.Context) {
	view, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, view, "profile")
}

func (h *ServiceHandler) AdjustStatistic(c *gin.Context) {
	var q adjustStatisticQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(invalidPayload(err))
		return
	}
	increase := q.Increase == nil || *q.Increase
	if err := h.Svc.AdjustStatistic(c.Request.Context(), q.UserID, q.Field, increase); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusAccepted, gin.H{"status": "accepted"}, "statistic updated")
}

func (h *ServiceHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(invalidPayload(err))
		return
	}
	docs, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, docs, "search results")
}
