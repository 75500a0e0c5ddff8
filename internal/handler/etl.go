package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gvanzela/nexcore-erp/internal/apierror"
	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/worker"
)

// ETLHandler enqueues pipeline runs and exposes the dead-letter list. Actual
// execution happens on the queue consumer, one job at a time.
type ETLHandler struct{ dispatcher *worker.Dispatcher }

func NewETLHandler(dispatcher *worker.Dispatcher) *ETLHandler {
	return &ETLHandler{dispatcher: dispatcher}
}

func (h *ETLHandler) EnqueueJob(c *gin.Context) {
	var req dto.ETLJobRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if _, ok := extract.Specs[req.Entity]; !ok {
		c.JSON(http.StatusBadRequest, apierror.New("unknown staging entity: "+req.Entity))
		return
	}
	if err := h.dispatcher.Enqueue(c.Request.Context(), req.Kind, req.Entity); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to enqueue job"))
		return
	}
	c.JSON(http.StatusAccepted, dto.ETLJobResponse{Kind: req.Kind, Entity: req.Entity, EnqueuedAt: time.Now().UTC()})
}

func (h *ETLHandler) DeadLetters(c *gin.Context) {
	limit := int64(queryInt(c, "limit", 50))
	jobs, err := h.dispatcher.DeadLetters(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to read dead letters"))
		return
	}
	out := make([]dto.DeadJobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, dto.DeadJobResponse{
			Kind:     j.Kind,
			Entity:   j.Entity,
			FailedAt: j.FailedAt,
			Reason:   j.Error,
		})
	}
	c.JSON(http.StatusOK, gin.H{"dead_letters": out})
}
