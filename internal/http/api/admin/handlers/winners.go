package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/draw"
	"github.com/luckydrawhq/luckydraw/internal/mail"
	"github.com/luckydrawhq/luckydraw/internal/settings"
	log "github.com/sirupsen/logrus"
)

// WinnersHandler runs winner selection and the report view.
type WinnersHandler struct {
	selector  *draw.Selector
	lifecycle *draw.Lifecycle
	notifier  mail.Notifier
}

// NewWinnersHandler constructs a WinnersHandler.
func NewWinnersHandler(selector *draw.Selector, lifecycle *draw.Lifecycle, notifier mail.Notifier) *WinnersHandler {
	return &WinnersHandler{selector: selector, lifecycle: lifecycle, notifier: notifier}
}

// Select decides a draw and notifies the winner by mail. The notification
// runs after the selection has committed and its failure is only logged;
// a winner is final whether or not the mail goes out.
func (h *WinnersHandler) Select(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}

	result, errSelect := h.selector.SelectWinner(c.Request.Context(), id)
	if errSelect != nil {
		respondDrawError(c, errSelect)
		return
	}

	if h.notifier != nil && settings.WinnerMailEnabled() {
		go func(r draw.Result) {
			if errNotify := h.notifier.NotifyWinner(r.Email, r.Username, r.DrawTitle, r.DrawDate); errNotify != nil {
				log.Errorf("winner notification failed for draw %d: %v", r.Winner.DrawID, errNotify)
			}
		}(result)
	}

	c.JSON(http.StatusOK, gin.H{
		"draw_id":     result.Winner.DrawID,
		"user_id":     result.Winner.UserID,
		"username":    result.Username,
		"email":       result.Email,
		"title":       result.DrawTitle,
		"draw_date":   result.DrawDate.Format(dateFormat),
		"selected_at": formatTimestamp(result.Winner.SelectedAt),
	})
}

// Report returns the draw, its participants, and its winner in one payload.
func (h *WinnersHandler) Report(c *gin.Context) {
	id, ok := drawIDParam(c)
	if !ok {
		return
	}

	report, errReport := h.lifecycle.BuildReport(c.Request.Context(), id)
	if errReport != nil {
		respondDrawError(c, errReport)
		return
	}

	participants := make([]gin.H, 0, len(report.Participants))
	for _, entry := range report.Participants {
		participants = append(participants, gin.H{
			"user_id":        entry.Participant.UserID,
			"username":       entry.Username,
			"name":           entry.Participant.Name,
			"email":          entry.Participant.Email,
			"phone":          entry.Participant.Phone,
			"payment_method": entry.Participant.PaymentMethod,
			"bank_name":      entry.Participant.BankName,
			"amount":         entry.Participant.Amount,
			"joined_at":      formatTimestamp(entry.Participant.JoinedAt),
		})
	}

	resp := gin.H{
		"draw": gin.H{
			"id":          report.Draw.ID,
			"title":       report.Draw.Title,
			"description": report.Draw.Description,
			"draw_date":   report.Draw.DrawDate.Format(dateFormat),
		},
		"participants": participants,
		"winner":       nil,
	}
	if report.Winner != nil {
		resp["winner"] = gin.H{
			"username":    report.Winner.Username,
			"email":       report.Winner.Email,
			"selected_at": formatTimestamp(report.Winner.SelectedAt),
		}
	}
	c.JSON(http.StatusOK, resp)
}
