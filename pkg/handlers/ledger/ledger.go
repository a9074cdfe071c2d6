package ledger

import (
	"net/http"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/respond"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/mapping"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

const (
	defaultLimit = int32(20)
	maxLimit     = int32(100)
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, params api.ListLedgerEntriesParams) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var ownerID string
	if params.OwnerId != nil {
		ownerID = *params.OwnerId
	}
	owner, err := principal.ActingAs(ownerID)
	if err != nil {
		respond.Error(w, http.StatusForbidden, "not allowed to read this ledger")
		return
	}

	limit := defaultLimit
	if params.Limit != nil && *params.Limit > 0 {
		limit = min(*params.Limit, maxLimit)
	}

	entries, err := h.Store.ListTransactionsByOwner(r.Context(), owner.ID(), limit)
	if err != nil {
		respond.Internal(w, r, "failed to retrieve ledger entries", err)
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}

	respond.JSON(w, http.StatusOK, apiEntries)
}
