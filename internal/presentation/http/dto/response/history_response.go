package response

import (
	"github.com/sangkips/receipt-studio/internal/domain/entity"
)

// HistorySummary is one row of the history list.
type HistorySummary struct {
	ID        string `json:"id"`
	StoreName string `json:"storeName"`
	Timestamp string `json:"timestamp"`
	Total     string `json:"total"`
}

func NewHistorySummary(e entity.HistoryEntry) HistorySummary {
	total := e.Total
	if total == "" {
		total = "0.00"
	}
	return HistorySummary{
		ID:        e.ID.String(),
		StoreName: e.DisplayName(),
		Timestamp: e.Timestamp,
		Total:     "$" + total,
	}
}

func NewHistorySummaries(entries []entity.HistoryEntry) []HistorySummary {
	out := make([]HistorySummary, len(entries))
	for i, e := range entries {
		out[i] = NewHistorySummary(e)
	}
	return out
}
