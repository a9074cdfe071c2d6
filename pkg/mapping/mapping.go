package mapping

import (
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/partners"
)

// ToApiSecureLink converts a domain SecureLink to an API SecureLink.
// The customer email is ciphertext at rest and is never returned.
func ToApiSecureLink(link *models.SecureLink) api.SecureLink {
	return api.SecureLink{
		Token:     link.Token,
		OwnerId:   link.OwnerID,
		SessionId: link.SessionID,
		IsUsed:    link.IsUsed,
		UsedAt:    link.UsedAt,
		ExpiresAt: link.ExpiresAt,
		CreatedAt: link.CreatedAt,
		Metadata: api.LinkMetadata{
			Sold:         link.Metadata.Sold,
			SoldAt:       link.Metadata.SoldAt,
			Plan:         optional(link.Metadata.Plan),
			PurchaseDate: link.Metadata.PurchaseDate,
		},
	}
}

// ToApiSecureLinks converts a slice of links.
func ToApiSecureLinks(in []models.SecureLink) []api.SecureLink {
	out := make([]api.SecureLink, len(in))
	for i := range in {
		out[i] = ToApiSecureLink(&in[i])
	}
	return out
}

// ToApiLinkPage converts a domain LinkPage to an API LinkPage.
func ToApiLinkPage(page *models.LinkPage) *api.LinkPage {
	return &api.LinkPage{
		Links: ToApiSecureLinks(page.Links),
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Counts: api.LinkCounts{
			Total:  page.Counts.Total,
			Used:   page.Counts.Used,
			Unused: page.Counts.Unused,
			Sold:   page.Counts.Sold,
			Unsold: page.Counts.Unsold,
		},
	}
}

// ToApiValidation converts a validation result to the API response.
func ToApiValidation(res *links.ValidationResult) *api.Validation {
	return &api.Validation{
		SessionId: res.SessionID,
		OwnerId:   res.Owner.ID(),
		ExpiresAt: res.ExpiresAt,
		Branding:  ToApiBranding(res.Branding),
	}
}

// ToApiBranding converts domain branding. A nil input stays nil.
func ToApiBranding(b *models.Branding) *api.Branding {
	if b == nil {
		return nil
	}
	return &api.Branding{
		BusinessName: b.BusinessName,
		LogoUrl:      optional(b.LogoURL),
		PrimaryColor: optional(b.PrimaryColor),
		Website:      optional(b.Website),
	}
}

// ToApiLedgerEntry converts a ledger transaction to an API LedgerEntry.
func ToApiLedgerEntry(tx *models.PartnerTransaction) *api.LedgerEntry {
	return &api.LedgerEntry{
		TransactionId: tx.TransactionID,
		Type:          api.LedgerEntryType(tx.Type),
		OwnerId:       tx.OwnerID,
		Amount:        tx.Amount,
		Quantity:      tx.Quantity,
		Currency:      tx.Currency,
		Status:        api.LedgerEntryStatus(tx.Status),
		CreatedAt:     tx.CreatedAt,
	}
}

// ToApiPartner converts a decrypted partner to the API model.
func ToApiPartner(p *models.Partner) *api.Partner {
	branding := ToApiBranding(&p.Branding)
	return &api.Partner{
		PartnerId: p.PartnerID,
		Email:     p.Email,
		Name:      p.Name,
		Address:   optional(p.Address),
		Phone:     optional(p.Phone),
		Role:      api.PartnerRole(p.Role),
		Branding:  *branding,
		CreatedAt: p.CreatedAt,
	}
}

// ToDomainSignup converts an API NewPartner to a signup request.
func ToDomainSignup(np *api.NewPartner) partners.SignupInput {
	return partners.SignupInput{
		Email:        np.Email,
		Password:     np.Password,
		Name:         np.Name,
		Address:      value(np.Address),
		Phone:        value(np.Phone),
		BusinessName: np.BusinessName,
		LogoURL:      value(np.LogoUrl),
		PrimaryColor: value(np.PrimaryColor),
		Website:      value(np.Website),
	}
}

// ToDomainSale converts an API MarkSoldRequest to sale details.
func ToDomainSale(req *api.MarkSoldRequest) links.SaleDetails {
	sale := links.SaleDetails{
		CustomerEmail: value(req.CustomerEmail),
		Plan:          value(req.Plan),
		PurchaseDate:  req.PurchaseDate,
		Currency:      value(req.Currency),
	}
	if req.Amount != nil {
		sale.Amount = *req.Amount
	}
	return sale
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
