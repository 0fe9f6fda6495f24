package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
	"tenantcrm/internal/services"
)

type DealHandler struct {
	Service services.DealService
}

func NewDealHandler(service services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

// @Summary      Create a deal
// @Description  Defaults: status open, currency USD, probability 0, owner = caller
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        deal  body      models.DealInput  true  "Deal"
// @Success      201   {object}  models.Deal
// @Failure      400   {object}  ErrorResponse
// @Router       /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req models.DealInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	deal, err := h.Service.Create(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deal)
}

// @Summary   List deals
// @Tags      Deals
// @Produce   json
// @Security  BearerAuth
// @Param     page      query     int     false  "Page (from 1)"
// @Param     limit     query     int     false  "Page size (1-100)"
// @Param     status    query     string  false  "open, won, lost or on-hold"
// @Param     minValue  query     number  false  "Minimum value, inclusive"
// @Param     maxValue  query     number  false  "Maximum value, inclusive"
// @Success   200       {object}  models.List[models.Deal]
// @Failure   400       {object}  ErrorResponse
// @Router    /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	filter, ok := dealFilterQuery(c)
	if !ok {
		return
	}
	list, err := h.Service.List(c.Request.Context(), p, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func dealFilterQuery(c *gin.Context) (models.DealFilter, bool) {
	f := models.DealFilter{Status: models.DealStatus(strings.TrimSpace(c.Query("status")))}
	var bad []apperrors.FieldError
	for _, q := range []struct {
		key string
		dst **decimal.Decimal
	}{
		{"minValue", &f.MinValue},
		{"maxValue", &f.MaxValue},
	} {
		raw := strings.TrimSpace(c.Query(q.key))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			bad = append(bad, apperrors.FieldError{Field: q.key, Message: "must be a number"})
			continue
		}
		*q.dst = &d
	}
	if len(bad) > 0 {
		respondError(c, apperrors.Validation(bad...))
		return models.DealFilter{}, false
	}
	return f, true
}

func (h *DealHandler) ListByCompany(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := h.Service.ListByCompany(c.Request.Context(), p, companyID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DealHandler) GetByID(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deal, err := h.Service.GetByID(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) Update(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var patch models.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	deal, err := h.Service.Update(c.Request.Context(), p, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) Delete(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deleted, err := h.Service.Delete(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, apperrors.NotFound("deal"))
		return
	}
	c.Status(http.StatusNoContent)
}
