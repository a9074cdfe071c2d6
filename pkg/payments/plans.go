package payments

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is a purchasable bundle of links.
type Plan struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Quantity int    `yaml:"quantity" json:"quantity"`
	Amount   int64  `yaml:"amount" json:"amount"`
	Currency string `yaml:"currency" json:"currency"`
}

// Catalog holds the plans offered at checkout.
type Catalog struct {
	Plans []Plan `yaml:"plans"`
	byID  map[string]Plan
}

// DefaultCatalog is used when no plans file is configured.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog([]Plan{
		{ID: "links-10", Name: "10 Secure Links", Quantity: 10, Amount: 4900, Currency: "usd"},
		{ID: "links-50", Name: "50 Secure Links", Quantity: 50, Amount: 19900, Currency: "usd"},
		{ID: "links-250", Name: "250 Secure Links", Quantity: 250, Amount: 79900, Currency: "usd"},
	})
	return c
}

// NewCatalog validates plans and indexes them by id.
func NewCatalog(plans []Plan) (*Catalog, error) {
	c := &Catalog{Plans: make([]Plan, 0, len(plans)), byID: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("plan without id")
		}
		if p.Quantity < 1 {
			return nil, fmt.Errorf("plan %s: quantity must be positive", p.ID)
		}
		if p.Amount < 0 {
			return nil, fmt.Errorf("plan %s: amount must not be negative", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan id %s", p.ID)
		}
		if p.Currency == "" {
			p.Currency = "usd"
		}
		c.byID[p.ID] = p
		c.Plans = append(c.Plans, p)
	}
	return c, nil
}

// ParseCatalog reads a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw Catalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse plans: %w", err)
	}
	return NewCatalog(raw.Plans)
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans file: %w", err)
	}
	return ParseCatalog(data)
}

// Get returns the plan with the given id.
func (c *Catalog) Get(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}
