package models

import "time"

// Client represents a billed customer. Name and address may each arrive in
// one of several historical shapes; every shape is kept as stored and the
// renderer resolves a single canonical form at render time.
type Client struct {
	ID string `json:"id"`

	// Name shapes, in resolution priority order.
	CompanyName   *string `json:"company_name"`
	ContactPerson *string `json:"contact_person"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`

	Email *string `json:"email"`
	Phone *string `json:"phone"`

	// Address shape (b): single preformatted string.
	Address *string `json:"address"`

	// Address shape (a): structured billing fields.
	BillingStreet     *string `json:"billing_street"`
	BillingCity       *string `json:"billing_city"`
	BillingState      *string `json:"billing_state"`
	BillingPostalCode *string `json:"billing_postal_code"`
	BillingCountry    *string `json:"billing_country"`

	// Address shape (c): legacy flat address-line fields.
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientInput is used for creating/updating clients.
type ClientInput struct {
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
}

func (c *ClientInput) Validate() string {
	if deref(c.CompanyName) == "" && deref(c.ContactPerson) == "" &&
		deref(c.FirstName) == "" && deref(c.LastName) == "" {
		return "at least one of company_name, contact_person, first_name, last_name is required"
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
