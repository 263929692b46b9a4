package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanySettings is the single-row issuing-company profile: identity,
// banking details, default tax/currency, and printable image assets.
type CompanySettings struct {
	CompanyName   *string `json:"company_name"`
	ContactPerson *string `json:"contact_person"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`

	Address *string `json:"address"`

	BillingStreet     *string `json:"billing_street"`
	BillingCity       *string `json:"billing_city"`
	BillingState      *string `json:"billing_state"`
	BillingPostalCode *string `json:"billing_postal_code"`
	BillingCountry    *string `json:"billing_country"`

	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`

	CurrencyCode string          `json:"currency_code"`
	TaxRate      decimal.Decimal `json:"tax_rate"`

	BankName       *string `json:"bank_name"`
	BankAccount    *string `json:"bank_account"`
	BankBranchCode *string `json:"bank_branch_code"`

	LogoPath      *string `json:"logo_path"`
	StampPath     *string `json:"stamp_path"`
	SignaturePath *string `json:"signature_path"`

	UpdatedAt time.Time `json:"updated_at"`
}

// CompanySettingsInput is used for updating the company profile.
type CompanySettingsInput struct {
	CompanyName   *string `json:"company_name"`
	ContactPerson *string `json:"contact_person"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`

	Address *string `json:"address"`

	BillingStreet     *string `json:"billing_street"`
	BillingCity       *string `json:"billing_city"`
	BillingState      *string `json:"billing_state"`
	BillingPostalCode *string `json:"billing_postal_code"`
	BillingCountry    *string `json:"billing_country"`

	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`

	CurrencyCode string           `json:"currency_code"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`

	BankName       *string `json:"bank_name"`
	BankAccount    *string `json:"bank_account"`
	BankBranchCode *string `json:"bank_branch_code"`

	LogoPath      *string `json:"logo_path"`
	StampPath     *string `json:"stamp_path"`
	SignaturePath *string `json:"signature_path"`
}

func (c *CompanySettingsInput) Validate() string {
	if c.TaxRate != nil && c.TaxRate.IsNegative() {
		return "tax_rate must be non-negative"
	}
	return ""
}
