package handlers

import (
	"net/http"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/ledger"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/partners"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/payments"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/respond"
)

// ApiHandler implements the generated server interface by composing the
// resource handlers.
type ApiHandler struct {
	*links.LinksHandler
	*ledger.LedgerHandler
	*payments.PaymentsHandler
	*partners.PartnersHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(l *links.LinksHandler, lg *ledger.LedgerHandler, p *payments.PaymentsHandler, pt *partners.PartnersHandler) *ApiHandler {
	return &ApiHandler{
		LinksHandler:    l,
		LedgerHandler:   lg,
		PaymentsHandler: p,
		PartnersHandler: pt,
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// GetHealth reports liveness.
func (h *ApiHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
