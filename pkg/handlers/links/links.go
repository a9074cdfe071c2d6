package links

import (
	"context"
	"errors"
	"net/http"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/respond"
	linksvc "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/mapping"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// BatchIssuer is implemented by links.Issuer.
type BatchIssuer interface {
	IssueBatch(ctx context.Context, owner models.Owner, count int, opts linksvc.IssueOptions) ([]models.SecureLink, error)
}

// Validator is implemented by links.Validator.
type Validator interface {
	Validate(ctx context.Context, token string) (*linksvc.ValidationResult, error)
}

// Tracker is implemented by links.UsageTracker.
type Tracker interface {
	MarkUsed(ctx context.Context, token string) error
	MarkSold(ctx context.Context, token string, sale linksvc.SaleDetails) error
}

// Lister is implemented by links.Inventory.
type Lister interface {
	List(ctx context.Context, owner models.Owner, opts linksvc.ListOptions) (*models.LinkPage, error)
}

// LinksHandler holds the dependencies for link-related handlers.
type LinksHandler struct {
	Issuer    BatchIssuer
	Validator Validator
	Tracker   Tracker
	Inventory Lister
}

// NewLinksHandler creates a new LinksHandler.
func NewLinksHandler(issuer BatchIssuer, validator Validator, tracker Tracker, inventory Lister) *LinksHandler {
	return &LinksHandler{Issuer: issuer, Validator: validator, Tracker: tracker, Inventory: inventory}
}

// CreateLinkBatch issues a batch of links for the caller, or for any owner when the
// caller is an admin.
func (h *LinksHandler) CreateLinkBatch(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req api.NewLinkBatch
	if !respond.Decode(w, r, &req) {
		return
	}

	owner, err := principal.ActingAs(deref(req.OwnerId))
	if err != nil {
		respond.Error(w, http.StatusForbidden, "not allowed to issue links for this owner")
		return
	}

	var opts linksvc.IssueOptions
	if req.ExpiryHours != nil {
		if opts.Expiry, err = linksvc.ExpiryFromHours(*req.ExpiryHours); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	issued, err := h.Issuer.IssueBatch(r.Context(), owner, req.Count, opts)
	if err != nil {
		if errors.Is(err, linksvc.ErrInvalidCount) || errors.Is(err, linksvc.ErrInvalidExpiry) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Internal(w, r, "failed to issue links", err)
		return
	}

	respond.JSON(w, http.StatusCreated, api.LinkBatch{Links: mapping.ToApiSecureLinks(issued)})
}

// ValidateLink checks a token without consuming it.
func (h *LinksHandler) ValidateLink(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	res, err := h.Validator.Validate(r.Context(), req.Token)
	if err != nil {
		writeLinkError(w, r, "failed to validate link", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiValidation(res))
}

// MarkLinkUsed redeems a link. Repeating the call is harmless.
func (h *LinksHandler) MarkLinkUsed(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.Tracker.MarkUsed(r.Context(), req.Token); err != nil {
		writeLinkError(w, r, "failed to mark link used", err)
		return
	}

	respond.JSON(w, http.StatusOK, api.Success{Success: true})
}

// MarkLinkSold records a sale. Partners may only sell their own links.
func (h *LinksHandler) MarkLinkSold(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req api.MarkSoldRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	sale := mapping.ToDomainSale(&req)
	if !principal.IsAdmin() {
		seller := principal.Owner()
		sale.Seller = &seller
	}

	if err := h.Tracker.MarkSold(r.Context(), req.Token, sale); err != nil {
		writeLinkError(w, r, "failed to mark link sold", err)
		return
	}

	respond.JSON(w, http.StatusOK, api.Success{Success: true})
}

// ListLinks returns one page of an owner's links with counts over all of them.
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request, params api.ListLinksParams) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	owner, err := principal.ActingAs(deref(params.OwnerId))
	if err != nil {
		respond.Error(w, http.StatusForbidden, "not allowed to list links for this owner")
		return
	}

	opts := linksvc.ListOptions{}
	if params.Page != nil {
		opts.Page = *params.Page
	}
	if params.Limit != nil {
		opts.Limit = *params.Limit
	}
	if params.Status != nil {
		status, ok := models.ParseLinkStatus(string(*params.Status))
		if !ok {
			respond.Error(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		opts.Status = status
	}

	page, err := h.Inventory.List(r.Context(), owner, opts)
	if err != nil {
		respond.Internal(w, r, "failed to list links", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiLinkPage(page))
}

func writeLinkError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, linksvc.ErrMissingField):
		respond.Error(w, http.StatusBadRequest, "token is required")
	case errors.Is(err, linksvc.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "link not found")
	case errors.Is(err, linksvc.ErrExpired):
		respond.Error(w, http.StatusGone, "link expired")
	case errors.Is(err, linksvc.ErrNotOwner):
		respond.Error(w, http.StatusForbidden, "link belongs to another owner")
	default:
		respond.Internal(w, r, msg, err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
