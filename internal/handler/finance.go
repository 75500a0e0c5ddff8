package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvanzela/nexcore-erp/internal/apierror"
	"github.com/gvanzela/nexcore-erp/internal/service"
)

type FinanceHandler struct{ svc service.FinanceService }

func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

func (h *FinanceHandler) ListPayables(c *gin.Context) {
	rows, total, err := h.svc.ListPayables(c.Request.Context(), c.Query("status"), queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list payables"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"payables": rows, "total": total})
}

func (h *FinanceHandler) PayPayable(c *gin.Context) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.PayPayable(c.Request.Context(), id)
	if err != nil {
		writeSettleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	rows, total, err := h.svc.ListReceivables(c.Request.Context(), c.Query("status"), queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list receivables"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"receivables": rows, "total": total})
}

func (h *FinanceHandler) SettleReceivable(c *gin.Context) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.SettleReceivable(c.Request.Context(), id)
	if err != nil {
		writeSettleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeSettleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrObligationNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("failed to settle obligation"))
	}
}
