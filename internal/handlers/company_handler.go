package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
	"tenantcrm/internal/services"
)

type CompanyHandler struct {
	Service services.CompanyService
}

func NewCompanyHandler(service services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Service: service}
}

// @Summary   Create a company
// @Tags      Companies
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     company  body      models.CompanyInput  true  "Company"
// @Success   201      {object}  models.Company
// @Failure   400      {object}  ErrorResponse
// @Router    /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req models.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	company, err := h.Service.Create(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// @Summary   List companies
// @Tags      Companies
// @Produce   json
// @Security  BearerAuth
// @Param     page    query     int     false  "Page (from 1)"
// @Param     limit   query     int     false  "Page size (1-100)"
// @Param     search  query     string  false  "Substring of name or industry"
// @Success   200     {object}  models.List[models.Company]
// @Router    /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := h.Service.List(c.Request.Context(), p, c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary   Get a company
// @Tags      Companies
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Company ID"
// @Success   200  {object}  models.Company
// @Failure   404  {object}  ErrorResponse
// @Router    /companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	company, err := h.Service.GetByID(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// @Summary      Update a company
// @Description  Only the fields present in the body are changed
// @Tags         Companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Company ID"
// @Param        patch  body      object  true  "Fields to change"
// @Success      200    {object}  models.Company
// @Failure      400    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
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
	company, err := h.Service.Update(c.Request.Context(), p, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// @Summary      Delete a company
// @Description  Deletes the company's deals and detaches its contacts
// @Tags         Companies
// @Security     BearerAuth
// @Param        id  path  string  true  "Company ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
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
		respondError(c, apperrors.NotFound("company"))
		return
	}
	c.Status(http.StatusNoContent)
}
