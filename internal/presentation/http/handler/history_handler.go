package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/presentation/http/dto/response"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"github.com/sangkips/receipt-studio/pkg/pagination"
)

// HistoryHandler lists, loads and deletes saved receipts.
type HistoryHandler struct {
	history *service.HistoryStore
}

func NewHistoryHandler(history *service.HistoryStore) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns one page of saved receipts, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	summaries := response.NewHistorySummaries(h.history.List(c.Request.Context()))
	response.SuccessWithPagination(c, http.StatusOK, "History retrieved", pagination.Paginate(summaries, params))
}

func (h *HistoryHandler) Get(c *gin.Context) {
	id, ok := parseHistoryID(c)
	if !ok {
		return
	}
	entry, found := h.history.GetByID(c.Request.Context(), id)
	if !found {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return
	}
	response.OK(c, "Receipt retrieved", entry)
}

// Delete removes a saved receipt. Requires confirmation.
func (h *HistoryHandler) Delete(c *gin.Context) {
	id, ok := parseHistoryID(c)
	if !ok {
		return
	}

	err := h.history.DeleteByID(c.Request.Context(), id, RequestConfirmer(c))
	switch {
	case errors.Is(err, apperror.ErrHistoryNotPersisted):
		response.SuccessWithWarning(c, "Receipt deleted from history", err.Error(), nil)
	case err != nil:
		response.Error(c, err)
	default:
		response.OK(c, "Receipt deleted from history", nil)
	}
}

// Load copies a saved receipt into the caller's draft.
func (h *HistoryHandler) Load(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseHistoryID(c)
	if !ok {
		return
	}

	entry, found := h.history.GetByID(c.Request.Context(), id)
	if !found {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return
	}

	totals := sess.Model.Load(entry.Receipt)
	respondDraft(c, http.StatusOK, "Receipt loaded successfully", sess, totals)
}
