package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
	"tenantcrm/internal/services"
)

type ContactHandler struct {
	Service services.ContactService
}

func NewContactHandler(service services.ContactService) *ContactHandler {
	return &ContactHandler{Service: service}
}

// @Summary   Create a contact
// @Tags      Contacts
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     contact  body      models.ContactInput  true  "Contact"
// @Success   201      {object}  models.Contact
// @Failure   400      {object}  ErrorResponse
// @Failure   409      {object}  ErrorResponse
// @Router    /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req models.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	contact, err := h.Service.Create(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) List(c *gin.Context) {
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

// ListByCompany lists the company's contacts, primary contacts first.
func (h *ContactHandler) ListByCompany(c *gin.Context) {
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

func (h *ContactHandler) GetByID(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	contact, err := h.Service.GetByID(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
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
	contact, err := h.Service.Update(c.Request.Context(), p, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Delete a contact
// @Description  Clears the contact from any deal that referenced it
// @Tags         Contacts
// @Security     BearerAuth
// @Param        id  path  string  true  "Contact ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
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
		respondError(c, apperrors.NotFound("contact"))
		return
	}
	c.Status(http.StatusNoContent)
}
