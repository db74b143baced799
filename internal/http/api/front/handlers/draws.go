package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/draw"
	"github.com/luckydrawhq/luckydraw/internal/settings"
)

// DrawsHandler serves draw listings and the join flow for regular users.
type DrawsHandler struct {
	lifecycle *draw.Lifecycle
	registry  *draw.Registry
}

// NewDrawsHandler constructs a DrawsHandler.
func NewDrawsHandler(lifecycle *draw.Lifecycle, registry *draw.Registry) *DrawsHandler {
	return &DrawsHandler{lifecycle: lifecycle, registry: registry}
}

// drawIDParam parses the :id path parameter.
func drawIDParam(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw id"})
		return 0, false
	}
	return id, true
}

// List returns every draw with its aggregates, newest date first. This is
// the public home listing; the already-joined flag is always false here
// because there is no caller identity.
func (h *DrawsHandler) List(c *gin.Context) {
	summaries, errList := h.lifecycle.ListAll(c.Request.Context(), time.Now(), getUserID(c))
	if errList != nil {
		respondDrawError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"site_name": settings.SiteName(),
		"draws":     toSummaryResponses(summaries),
	})
}

// Dashboard returns the caller's join count plus the open draws they can
// still enter, soonest first.
func (h *DrawsHandler) Dashboard(c *gin.Context) {
	userID := getUserID(c)

	totalJoined, errCount := h.registry.JoinedCount(c.Request.Context(), userID)
	if errCount != nil {
		respondDrawError(c, errCount)
		return
	}
	summaries, errList := h.lifecycle.ListOpen(c.Request.Context(), time.Now(), userID)
	if errList != nil {
		respondDrawError(c, errList)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_joined": totalJoined,
		"draws":        toSummaryResponses(summaries),
	})
}

// joinRequest defines the request body for joining a draw.
type joinRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
	BankName      string `json:"bank_name"`
	Amount        string `json:"amount"`
}

// Join registers the caller for a draw, or refreshes their registration.
// Joining an expired or already-decided draw is deliberately not blocked
// here; see the registry contract.
func (h *DrawsHandler) Join(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}

	var body joinRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	participant, errJoin := h.registry.JoinOrUpdate(c.Request.Context(), id, getUserID(c), draw.Details{
		Name:          body.Name,
		Email:         body.Email,
		Phone:         body.Phone,
		PaymentMethod: body.PaymentMethod,
		BankName:      body.BankName,
		Amount:        body.Amount,
	})
	if errJoin != nil {
		respondDrawError(c, errJoin)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draw_id":        participant.DrawID,
		"name":           participant.Name,
		"email":          participant.Email,
		"phone":          participant.Phone,
		"payment_method": participant.PaymentMethod,
		"bank_name":      participant.BankName,
		"amount":         participant.Amount,
		"joined_at":      formatTimestamp(participant.JoinedAt),
	})
}

// JoinForm returns the data a client needs to prefill the join form: the
// caller's existing registration for the draw, if any.
func (h *DrawsHandler) JoinForm(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}

	d, errGet := h.lifecycle.Get(c.Request.Context(), id)
	if errGet != nil {
		respondDrawError(c, errGet)
		return
	}

	participant, errCurrent := h.registry.CurrentParticipant(c.Request.Context(), id, getUserID(c))
	if errCurrent != nil {
		respondDrawError(c, errCurrent)
		return
	}

	resp := gin.H{
		"draw_id":     d.ID,
		"title":       d.Title,
		"draw_date":   d.DrawDate.Format(dateFormat),
		"participant": nil,
	}
	if participant != nil {
		resp["participant"] = gin.H{
			"name":           participant.Name,
			"email":          participant.Email,
			"phone":          participant.Phone,
			"payment_method": participant.PaymentMethod,
			"bank_name":      participant.BankName,
			"amount":         participant.Amount,
			"joined_at":      formatTimestamp(participant.JoinedAt),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Participants returns a draw with its full participant list and winner.
func (h *DrawsHandler) Participants(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}

	d, errGet := h.lifecycle.Get(c.Request.Context(), id)
	if errGet != nil {
		respondDrawError(c, errGet)
		return
	}
	entries, errParticipants := h.lifecycle.Participants(c.Request.Context(), id)
	if errParticipants != nil {
		respondDrawError(c, errParticipants)
		return
	}
	winner, errWinner := h.lifecycle.WinnerFor(c.Request.Context(), id)
	if errWinner != nil {
		respondDrawError(c, errWinner)
		return
	}

	list := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		list = append(list, gin.H{
			"user_id":        entry.Participant.UserID,
			"username":       entry.Username,
			"name":           entry.Participant.Name,
			"email":          entry.Participant.Email,
			"phone":          entry.Participant.Phone,
			"payment_method": entry.Participant.PaymentMethod,
			"joined_at":      formatTimestamp(entry.Participant.JoinedAt),
		})
	}

	resp := gin.H{
		"draw": gin.H{
			"id":        d.ID,
			"title":     d.Title,
			"draw_date": d.DrawDate.Format(dateFormat),
		},
		"participants": list,
		"winner":       nil,
	}
	if winner != nil {
		resp["winner"] = gin.H{
			"username":    winner.Username,
			"email":       winner.Email,
			"selected_at": formatTimestamp(winner.SelectedAt),
		}
	}
	c.JSON(http.StatusOK, resp)
}
