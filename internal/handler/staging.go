package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvanzela/nexcore-erp/internal/apierror"
	"github.com/gvanzela/nexcore-erp/internal/repository"
	"github.com/gvanzela/nexcore-erp/internal/service"
)

// StagingHandler is the operator monitoring surface over the staging area.
type StagingHandler struct {
	svc          service.StagingService
	sourceSystem string
}

func NewStagingHandler(svc service.StagingService, sourceSystem string) *StagingHandler {
	return &StagingHandler{svc: svc, sourceSystem: sourceSystem}
}

func (h *StagingHandler) List(c *gin.Context) {
	filter := repository.StagingFilter{
		SourceSystem: c.DefaultQuery("source_system", h.sourceSystem),
		SourceEntity: c.Query("entity"),
		Status:       c.Query("status"),
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 50),
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list staging records"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StagingHandler) Counts(c *gin.Context) {
	system := c.DefaultQuery("source_system", h.sourceSystem)
	resp, err := h.svc.Counts(c.Request.Context(), system, c.Query("entity"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to count staging records"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
