package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/draw"
	log "github.com/sirupsen/logrus"
)

// dateFormat is how calendar dates appear in JSON payloads.
const dateFormat = "2006-01-02"

// drawIDParam parses the :id path parameter.
func drawIDParam(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw id"})
		return 0, false
	}
	return id, true
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

// summaryJSON shapes one listing row.
func summaryJSON(s draw.Summary) gin.H {
	return gin.H{
		"id":                 s.Draw.ID,
		"title":              s.Draw.Title,
		"description":        s.Draw.Description,
		"draw_date":          s.Draw.DrawDate.Format(dateFormat),
		"participants_count": s.ParticipantCount,
		"winner_selected":    s.WinnerSelected,
		"expired":            s.Expired,
	}
}

func summariesJSON(list []draw.Summary) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, s := range list {
		out = append(out, summaryJSON(s))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
