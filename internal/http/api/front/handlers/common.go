package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/draw"
	log "github.com/sirupsen/logrus"
)

// dateFormat is how calendar dates appear in JSON payloads.
const dateFormat = "2006-01-02"

// getUserID extracts the user ID from gin context.
func getUserID(c *gin.Context) uint64 {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	switch v := val.(type) {
	case uint64:
		return v
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case int:
		return uint64(v)
	default:
		return 0
	}
}

// respondDrawError maps a draw package error onto an HTTP response.
func respondDrawError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, draw.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, draw.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, draw.ErrAlreadyDecided):
		c.JSON(http.StatusConflict, gin.H{"error": "winner already selected"})
	case errors.Is(err, draw.ErrNoParticipants):
		c.JSON(http.StatusConflict, gin.H{"error": "no participants in this draw"})
	case errors.Is(err, draw.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting concurrent update"})
	default:
		log.Errorf("draw operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// summaryResponse is the JSON shape of a draw listing row.
type summaryResponse struct {
	ID               uint64 `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	DrawDate         string `json:"draw_date"`
	ParticipantCount int64  `json:"participants_count"`
	WinnerSelected   bool   `json:"winner_selected"`
	AlreadyJoined    bool   `json:"already_joined"`
	Expired          bool   `json:"expired"`
}

func toSummaryResponse(s draw.Summary) summaryResponse {
	return summaryResponse{
		ID:               s.Draw.ID,
		Title:            s.Draw.Title,
		Description:      s.Draw.Description,
		DrawDate:         s.Draw.DrawDate.Format(dateFormat),
		ParticipantCount: s.ParticipantCount,
		WinnerSelected:   s.WinnerSelected,
		AlreadyJoined:    s.AlreadyJoined,
		Expired:          s.Expired,
	}
}

func toSummaryResponses(list []draw.Summary) []summaryResponse {
	out := make([]summaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
