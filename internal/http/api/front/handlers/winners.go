package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/draw"
)

// WinnersHandler lists recorded winners.
type WinnersHandler struct {
	lifecycle *draw.Lifecycle
}

// NewWinnersHandler constructs a WinnersHandler.
func NewWinnersHandler(lifecycle *draw.Lifecycle) *WinnersHandler {
	return &WinnersHandler{lifecycle: lifecycle}
}

// List returns every winner with draw and user data, newest first.
func (h *WinnersHandler) List(c *gin.Context) {
	entries, errList := h.lifecycle.Winners(c.Request.Context())
	if errList != nil {
		respondDrawError(c, errList)
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		out = append(out, gin.H{
			"id":          entry.ID,
			"draw_id":     entry.DrawID,
			"title":       entry.DrawTitle,
			"draw_date":   entry.DrawDate.Format(dateFormat),
			"username":    entry.Username,
			"email":       entry.Email,
			"selected_at": formatTimestamp(entry.SelectedAt),
		})
	}
	c.JSON(http.StatusOK, gin.H{"winners": out})
}
