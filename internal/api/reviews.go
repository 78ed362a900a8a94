package api

import (
	"net/http"

	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createReview posts a star rating (and optional text) for a product
func (h *Handler) createReview(c *gin.Context) {
	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), callerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// listProductReviews returns all reviews for a product
func (h *Handler) listProductReviews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// updateReview edits a review owned by the caller (admins may edit any)
func (h *Handler) updateReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.reviews.Update(c.Request.Context(), callerID(c), callerRole(c), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated"})
}

// deleteReview removes a review owned by the caller (admins may remove any)
func (h *Handler) deleteReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), callerID(c), callerRole(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// createReviewComment adds a comment under a review
func (h *Handler) createReviewComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.ReviewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	comment, err := h.reviews.CreateComment(c.Request.Context(), callerID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// listReviewComments returns the comments under a review
func (h *Handler) listReviewComments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	comments, err := h.reviews.ListComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// updateReviewComment edits a comment owned by the caller (admins may edit any)
func (h *Handler) updateReviewComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.ReviewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.reviews.UpdateComment(c.Request.Context(), callerID(c), callerRole(c), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

// deleteReviewComment removes a comment owned by the caller (admins may remove any)
func (h *Handler) deleteReviewComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.reviews.DeleteComment(c.Request.Context(), callerID(c), callerRole(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
