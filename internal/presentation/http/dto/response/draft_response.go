package response

import (
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/pkg/money"
	"github.com/sangkips/receipt-studio/pkg/render"
)

// TotalsResponse is Totals formatted for display.
type TotalsResponse struct {
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	Tendered  string `json:"tendered,omitempty"`
	Change    string `json:"change,omitempty"`
	ItemCount int    `json:"itemCount"`
	Cash      bool   `json:"cash"`
}

func NewTotalsResponse(t entity.Totals) TotalsResponse {
	r := TotalsResponse{
		Subtotal:  money.Format(t.Subtotal),
		Tax:       money.Format(t.Tax),
		Total:     money.Format(t.Total),
		ItemCount: t.ItemCount,
		Cash:      t.Cash,
	}
	if t.Cash {
		r.Tendered = money.Format(t.Tendered)
		r.Change = money.Format(t.Change)
	}
	return r
}

// DraftResponse is the full editor state of a session.
type DraftResponse struct {
	SessionID string         `json:"sessionId"`
	Draft     entity.Receipt `json:"draft"`
	Totals    TotalsResponse `json:"totals"`
	Preview   string         `json:"preview"`
}

func NewDraftResponse(sessionID string, draft entity.Receipt, totals entity.Totals, view render.View) DraftResponse {
	return DraftResponse{
		SessionID: sessionID,
		Draft:     draft,
		Totals:    NewTotalsResponse(totals),
		Preview:   render.Text(view),
	}
}
