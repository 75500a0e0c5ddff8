package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gvanzela/nexcore-erp/internal/apierror"
	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/repository"
	"github.com/gvanzela/nexcore-erp/internal/service"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) GetBalance(c *gin.Context) {
	id, ok := paramUint64(c, "product_id")
	if !ok {
		return
	}
	resp, err := h.svc.Balance(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute balance"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListBalances(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)
	resp, err := h.svc.Balances(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list balances"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	filter := repository.MovementFilter{
		MovementType: c.Query("movement_type"),
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 50),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
			return
		}
		filter.ProductID = &id
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid date_from, expected YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid date_to, expected YYYY-MM-DD"))
			return
		}
		filter.DateTo = &t
	}

	rows, total, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": rows, "total": total})
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
