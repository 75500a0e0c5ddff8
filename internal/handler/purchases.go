package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvanzela/nexcore-erp/internal/apierror"
	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/service"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Preview accepts an NF-e XML upload (multipart field "file") and returns the
// parsed document with lines split into matched and needs_review.
func (h *PurchasesHandler) Preview(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("missing XML file upload"))
		return
	}
	defer file.Close()

	resp, err := h.svc.Preview(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("invalid NF-e XML: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchasesHandler) ResolveLink(c *gin.Context) {
	var req dto.ResolveLinkRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResolveLink(c.Request.Context(), req)
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

func (h *PurchasesHandler) ResolveCreateProduct(c *gin.Context) {
	var req dto.ResolveCreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResolveCreate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchasesHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Confirm(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyConfirmed):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}
