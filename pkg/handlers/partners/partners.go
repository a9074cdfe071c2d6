package partners

import (
	"context"
	"errors"
	"net/http"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/respond"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/mapping"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	partnersvc "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/partners"
)

// Directory is implemented by partners.Directory.
type Directory interface {
	Signup(ctx context.Context, in partnersvc.SignupInput) (*models.Partner, error)
	Authenticate(ctx context.Context, email, password string) (*partnersvc.Session, error)
	Get(ctx context.Context, partnerID string) (*models.Partner, error)
}

// PartnersHandler holds the dependencies for partner and session handlers.
type PartnersHandler struct {
	Directory Directory
}

// NewPartnersHandler creates a new PartnersHandler.
func NewPartnersHandler(directory Directory) *PartnersHandler {
	return &PartnersHandler{Directory: directory}
}

// CreatePartner registers a new partner account. Self-service signups are always
// plain partners.
func (h *PartnersHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req api.NewPartner
	if !respond.Decode(w, r, &req) {
		return
	}

	partner, err := h.Directory.Signup(r.Context(), mapping.ToDomainSignup(&req))
	if err != nil {
		switch {
		case errors.Is(err, partnersvc.ErrEmailTaken):
			respond.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, links.ErrMissingField),
			errors.Is(err, partnersvc.ErrWeakPassword),
			errors.Is(err, partnersvc.ErrInvalidEmail):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			respond.Internal(w, r, "failed to create partner", err)
		}
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiPartner(partner))
}

// Login exchanges credentials for a session token.
func (h *PartnersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	sess, err := h.Directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, partnersvc.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		respond.Internal(w, r, "failed to log in", err)
		return
	}

	respond.JSON(w, http.StatusOK, api.Login{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

// GetCurrentPartner returns the authenticated partner's profile.
func (h *PartnersHandler) GetCurrentPartner(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	partner, err := h.Directory.Get(r.Context(), principal.PartnerID)
	if err != nil {
		if errors.Is(err, partnersvc.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "partner not found")
			return
		}
		respond.Internal(w, r, "failed to retrieve partner", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiPartner(partner))
}
