package models

import (
	"time"
)

// StarterOwnerID is the persisted owner id of links issued outside any partner account.
const StarterOwnerID = "starter-user"

// OwnerKind tells partner-owned links apart from starter-flow links.
type OwnerKind int

const (
	OwnerPartner OwnerKind = iota
	OwnerStarter
)

// Owner identifies who a secure link was issued for.
type Owner struct {
	Kind      OwnerKind
	PartnerID string
}

// PartnerOwner returns an Owner for the given partner id.
func PartnerOwner(partnerID string) Owner {
	return Owner{Kind: OwnerPartner, PartnerID: partnerID}
}

// StarterOwner returns the owner used by starter flows.
func StarterOwner() Owner {
	return Owner{Kind: OwnerStarter}
}

// ParseOwner converts a persisted owner id into an Owner.
func ParseOwner(id string) Owner {
	if id == StarterOwnerID {
		return StarterOwner()
	}
	return PartnerOwner(id)
}

// ID returns the persisted form of the owner.
func (o Owner) ID() string {
	if o.Kind == OwnerStarter {
		return StarterOwnerID
	}
	return o.PartnerID
}

// EnforcesExpiry reports whether links of this owner become invalid after expires_at.
// Starter links are exempt.
func (o Owner) EnforcesExpiry() bool {
	return o.Kind == OwnerPartner
}

// LinkMetadata is the metadata bag stored with each link.
type LinkMetadata struct {
	Sold          bool              `json:"sold" dynamodbav:"sold"`
	SoldAt        *time.Time        `json:"sold_at,omitempty" dynamodbav:"sold_at,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty" dynamodbav:"customer_email,omitempty"`
	Plan          string            `json:"plan,omitempty" dynamodbav:"plan,omitempty"`
	PurchaseDate  *time.Time        `json:"purchase_date,omitempty" dynamodbav:"purchase_date,omitempty"`
	Amount        int64             `json:"amount,omitempty" dynamodbav:"amount,omitempty"`
	Extra         map[string]string `json:"extra,omitempty" dynamodbav:"extra,omitempty"`
}

// SecureLink represents a token that unlocks one chat/report session.
// It includes dynamodbav tags for marshalling.
type SecureLink struct {
	Token     string       `dynamodbav:"token"`
	OwnerID   string       `dynamodbav:"owner_id"`
	SessionID string       `dynamodbav:"session_id"`
	IsUsed    bool         `dynamodbav:"is_used"`
	UsedAt    *time.Time   `dynamodbav:"used_at,omitempty"`
	Metadata  LinkMetadata `dynamodbav:"metadata"`
	ExpiresAt *time.Time   `dynamodbav:"expires_at,omitempty"`
	CreatedAt time.Time    `dynamodbav:"created_at"`
	TTL       int64        `dynamodbav:"ttl,omitempty"`
}

// Owner returns the typed owner of the link.
func (l *SecureLink) Owner() Owner {
	return ParseOwner(l.OwnerID)
}

// Expired reports whether the link is past its expiry at the given instant.
// Links without an expiry never expire.
func (l *SecureLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// LinkStatus filters link listings.
type LinkStatus string

const (
	LinkStatusAll    LinkStatus = "all"
	LinkStatusUsed   LinkStatus = "used"
	LinkStatusUnused LinkStatus = "unused"
	LinkStatusSold   LinkStatus = "sold"
	LinkStatusUnsold LinkStatus = "unsold"
)

// ParseLinkStatus converts a query value into a LinkStatus. Empty means all.
func ParseLinkStatus(s string) (LinkStatus, bool) {
	switch st := LinkStatus(s); st {
	case "":
		return LinkStatusAll, true
	case LinkStatusAll, LinkStatusUsed, LinkStatusUnused, LinkStatusSold, LinkStatusUnsold:
		return st, true
	default:
		return "", false
	}
}

// Matches reports whether a link falls under the status filter.
func (s LinkStatus) Matches(l *SecureLink) bool {
	switch s {
	case LinkStatusUsed:
		return l.IsUsed
	case LinkStatusUnused:
		return !l.IsUsed
	case LinkStatusSold:
		return l.Metadata.Sold
	case LinkStatusUnsold:
		return !l.Metadata.Sold
	default:
		return true
	}
}

// LinkCounts aggregates link states for one owner.
type LinkCounts struct {
	Total  int
	Used   int
	Unused int
	Sold   int
	Unsold int
}

// Add counts a single link.
func (c *LinkCounts) Add(l *SecureLink) {
	c.Total++
	if l.IsUsed {
		c.Used++
	} else {
		c.Unused++
	}
	if l.Metadata.Sold {
		c.Sold++
	} else {
		c.Unsold++
	}
}

// LinkPage is one page of an owner's links plus the owner-wide counts.
type LinkPage struct {
	Links  []SecureLink
	Page   int
	Limit  int
	Total  int
	Counts LinkCounts
}

// TransactionType distinguishes partner sales from inventory purchases.
type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionPurchase TransactionType = "purchase"
)

// TransactionStatus defines the possible states of a ledger entry.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusFailed    TransactionStatus = "failed"
	StatusRefunded  TransactionStatus = "refunded"
)

// PartnerTransaction is an append-only ledger entry.
type PartnerTransaction struct {
	TransactionID string            `dynamodbav:"transaction_id"`
	Type          TransactionType   `dynamodbav:"type"`
	OwnerID       string            `dynamodbav:"owner_id"`
	Amount        int64             `dynamodbav:"amount"`
	Quantity      int               `dynamodbav:"quantity"`
	Currency      string            `dynamodbav:"currency"`
	Status        TransactionStatus `dynamodbav:"status"`
	Metadata      map[string]string `dynamodbav:"metadata,omitempty"`
	CreatedAt     time.Time         `dynamodbav:"created_at"`
}

// IdempotencyStatus is the processing state of a gateway event.
type IdempotencyStatus string

const (
	IdempotencyPending   IdempotencyStatus = "PENDING"
	IdempotencyCompleted IdempotencyStatus = "COMPLETED"
)

// IdempotencyRecord marks a gateway event as claimed or processed.
type IdempotencyRecord struct {
	TransactionID string            `dynamodbav:"transaction_id"`
	Status        IdempotencyStatus `dynamodbav:"status"`
	OwnerID       string            `dynamodbav:"owner_id"`
	IssuedCount   int               `dynamodbav:"issued_count"`
	ClaimedAt     time.Time         `dynamodbav:"claimed_at,unixtime"`
	CompletedAt   *time.Time        `dynamodbav:"completed_at,omitempty"`
	TTL           int64             `dynamodbav:"ttl,omitempty"`
}

// Role is the authorization level of a partner account.
type Role string

const (
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Branding is the presentation data shown to end customers of a partner.
type Branding struct {
	BusinessName string `json:"business_name" dynamodbav:"business_name"`
	LogoURL      string `json:"logo_url,omitempty" dynamodbav:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty" dynamodbav:"primary_color,omitempty"`
	Website      string `json:"website,omitempty" dynamodbav:"website,omitempty"`
}

// Partner is a tenant account. Name, Email, Address and Phone hold ciphertext when
// loaded from storage.
type Partner struct {
	PartnerID    string    `dynamodbav:"partner_id"`
	Name         string    `dynamodbav:"name"`
	Email        string    `dynamodbav:"email"`
	Address      string    `dynamodbav:"address,omitempty"`
	Phone        string    `dynamodbav:"phone,omitempty"`
	PasswordHash string    `dynamodbav:"password_hash"`
	Role         Role      `dynamodbav:"role"`
	Branding     Branding  `dynamodbav:"branding"`
	CreatedAt    time.Time `dynamodbav:"created_at"`
}

// NotificationType identifies what happened to a link.
type NotificationType string

const (
	NotificationLinkUsed NotificationType = "link_used"
	NotificationLinkSold NotificationType = "link_sold"
)

// Notification is queued for delivery to the owning partner.
type Notification struct {
	Type          NotificationType `json:"type"`
	OwnerID       string           `json:"owner_id"`
	Token         string           `json:"token"`
	OccurredAt    time.Time        `json:"occurred_at"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	Plan          string           `json:"plan,omitempty"`
}
