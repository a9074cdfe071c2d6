// Package partners manages partner accounts. Personal fields are stored encrypted and
// decrypted on read, falling back to the stored value for rows written in plaintext.
package partners

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrNotFound           = errors.New("partner not found")
)

const (
	minPasswordLength       = 8
	DefaultStarterLinkCount = 3
)

// Cipher is the field cipher used for personal data.
type Cipher interface {
	Encrypt(plaintext string) string
	DecryptOrRaw(stored string) string
}

// LinkIssuer provisions the starter batch of a new partner.
type LinkIssuer interface {
	IssueBatch(ctx context.Context, owner models.Owner, count int, opts links.IssueOptions) ([]models.SecureLink, error)
}

// SignupInput is a new partner registration.
type SignupInput struct {
	Email        string
	Password     string
	Name         string
	Address      string
	Phone        string
	BusinessName string
	LogoURL      string
	PrimaryColor string
	Website      string
	Role         models.Role
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Partner   *models.Partner
}

// Directory implements partner signup, login and lookup.
type Directory struct {
	Store        storage.PartnerStore
	Cipher       Cipher
	Issuer       LinkIssuer
	Tokens       *auth.TokenIssuer
	StarterLinks int
	Now          func() time.Time
}

// NewDirectory creates a new Directory.
func NewDirectory(store storage.PartnerStore, cipher Cipher, issuer LinkIssuer, tokens *auth.TokenIssuer, starterLinks int) *Directory {
	return &Directory{
		Store:        store,
		Cipher:       cipher,
		Issuer:       issuer,
		Tokens:       tokens,
		StarterLinks: starterLinks,
		Now:          time.Now,
	}
}

// Signup registers a partner and provisions its starter links. The returned partner
// carries plaintext personal fields and no password hash.
func (d *Directory) Signup(ctx context.Context, in SignupInput) (*models.Partner, error) {
	email := normalizeEmail(in.Email)
	switch {
	case email == "":
		return nil, fmt.Errorf("%w: email", links.ErrMissingField)
	case in.Name == "":
		return nil, fmt.Errorf("%w: name", links.ErrMissingField)
	case in.BusinessName == "":
		return nil, fmt.Errorf("%w: business name", links.ErrMissingField)
	case len(in.Password) < minPasswordLength:
		return nil, ErrWeakPassword
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	encryptedEmail := d.Cipher.Encrypt(email)
	if _, err := d.Store.GetPartnerByEmail(ctx, encryptedEmail); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up partner email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RolePartner
	}

	partner := &models.Partner{
		PartnerID:    uuid.NewString(),
		Name:         d.Cipher.Encrypt(in.Name),
		Email:        encryptedEmail,
		Address:      d.Cipher.Encrypt(in.Address),
		Phone:        d.Cipher.Encrypt(in.Phone),
		PasswordHash: string(hash),
		Role:         role,
		Branding: models.Branding{
			BusinessName: in.BusinessName,
			LogoURL:      in.LogoURL,
			PrimaryColor: in.PrimaryColor,
			Website:      in.Website,
		},
		CreatedAt: d.Now().UTC(),
	}

	if err := d.Store.CreatePartner(ctx, partner); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	slog.InfoContext(ctx, "partner signed up", "partner_id", partner.PartnerID, "role", role)

	d.provisionStarterLinks(ctx, partner.PartnerID)
	return d.decrypt(partner), nil
}

// provisionStarterLinks issues the signup batch. A failure leaves the account usable;
// links can be issued later.
func (d *Directory) provisionStarterLinks(ctx context.Context, partnerID string) {
	if d.Issuer == nil || d.StarterLinks < 1 {
		return
	}
	if _, err := d.Issuer.IssueBatch(ctx, models.PartnerOwner(partnerID), d.StarterLinks, links.IssueOptions{}); err != nil {
		slog.ErrorContext(ctx, "failed to provision starter links", "partner_id", partnerID, "error", err)
	}
}

// Authenticate checks credentials and returns a signed session token.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	partner, err := d.Store.GetPartnerByEmail(ctx, d.Cipher.Encrypt(normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up partner: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(partner.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := d.Tokens.Issue(partner.PartnerID, partner.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Partner: d.decrypt(partner)}, nil
}

// Get returns a partner with personal fields decrypted.
func (d *Directory) Get(ctx context.Context, partnerID string) (*models.Partner, error) {
	partner, err := d.Store.GetPartner(ctx, partnerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return d.decrypt(partner), nil
}

// Branding returns the owner's branding. Starter links carry none.
func (d *Directory) Branding(ctx context.Context, owner models.Owner) (*models.Branding, error) {
	if owner.Kind == models.OwnerStarter {
		return nil, nil
	}
	partner, err := d.Store.GetPartner(ctx, owner.PartnerID)
	if err != nil {
		return nil, err
	}
	b := partner.Branding
	return &b, nil
}

func (d *Directory) decrypt(p *models.Partner) *models.Partner {
	out := *p
	out.Name = d.Cipher.DecryptOrRaw(p.Name)
	out.Email = d.Cipher.DecryptOrRaw(p.Email)
	out.Address = d.Cipher.DecryptOrRaw(p.Address)
	out.Phone = d.Cipher.DecryptOrRaw(p.Phone)
	out.PasswordHash = ""
	return &out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
