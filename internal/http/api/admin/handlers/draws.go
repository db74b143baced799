package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/draw"
)

// DrawsHandler manages draw CRUD for administrators.
type DrawsHandler struct {
	lifecycle *draw.Lifecycle
}

// NewDrawsHandler constructs a DrawsHandler.
func NewDrawsHandler(lifecycle *draw.Lifecycle) *DrawsHandler {
	return &DrawsHandler{lifecycle: lifecycle}
}

// drawRequest defines the request body for creating or editing a draw.
type drawRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DrawDate    string `json:"draw_date"`
}

// parseDate validates the draw_date field. Past dates are accepted; admins
// backfill old draws.
func (r drawRequest) parseDate(c *gin.Context) (time.Time, bool) {
	when, errParse := time.Parse(dateFormat, r.DrawDate)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "draw_date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return when, true
}

// Create stores a new draw.
func (h *DrawsHandler) Create(c *gin.Context) {
	var body drawRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	when, ok := body.parseDate(c)
	if !ok {
		return
	}

	d, errCreate := h.lifecycle.Create(c.Request.Context(), body.Title, body.Description, when)
	if errCreate != nil {
		respondDrawError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          d.ID,
		"title":       d.Title,
		"description": d.Description,
		"draw_date":   d.DrawDate.Format(dateFormat),
	})
}

// Update rewrites a draw.
func (h *DrawsHandler) Update(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}
	var body drawRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	when, ok := body.parseDate(c)
	if !ok {
		return
	}

	d, errUpdate := h.lifecycle.Update(c.Request.Context(), id, body.Title, body.Description, when)
	if errUpdate != nil {
		respondDrawError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          d.ID,
		"title":       d.Title,
		"description": d.Description,
		"draw_date":   d.DrawDate.Format(dateFormat),
	})
}

// Delete removes a draw together with its participants and winner.
func (h *DrawsHandler) Delete(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}
	if errDelete := h.lifecycle.Delete(c.Request.Context(), id); errDelete != nil {
		respondDrawError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// List returns every draw with aggregates, newest date first.
func (h *DrawsHandler) List(c *gin.Context) {
	summaries, errList := h.lifecycle.ListAll(c.Request.Context(), time.Now(), 0)
	if errList != nil {
		respondDrawError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draws": summariesJSON(summaries)})
}

// ListPast returns draws that are dated in the past or already decided.
func (h *DrawsHandler) ListPast(c *gin.Context) {
	summaries, errList := h.lifecycle.ListPast(c.Request.Context(), time.Now())
	if errList != nil {
		respondDrawError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draws": summariesJSON(summaries)})
}
