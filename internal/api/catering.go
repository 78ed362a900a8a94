package api

import (
	"net/http"

	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createCateringRequest submits a catering inquiry
func (h *Handler) createCateringRequest(c *gin.Context) {
	var req service.CreateCateringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	cr, err := h.catering.Create(c.Request.Context(), callerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cr)
}

// listMyCateringRequests returns the caller's catering inquiries
func (h *Handler) listMyCateringRequests(c *gin.Context) {
	reqs, err := h.catering.ListMine(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// listAllCateringRequests returns every catering inquiry
func (h *Handler) listAllCateringRequests(c *gin.Context) {
	reqs, err := h.catering.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// updateCateringStatus approves or declines a catering inquiry
func (h *Handler) updateCateringStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateCateringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.catering.UpdateStatus(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Catering request updated"})
}
