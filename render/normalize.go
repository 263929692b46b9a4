package render

import (
	"log/slog"
	"strings"

	"github.com/ledgerpress/ledgerpress/models"
)

// PartyKind distinguishes the fallback wording for unresolvable parties.
type PartyKind string

const (
	PartyClient  PartyKind = "client"
	PartyCompany PartyKind = "company"
)

// PartySource carries every historical name and address shape a party record
// can hold. Pointer fields from the models are flattened to plain strings so
// the resolution rules below read cleanly.
type PartySource struct {
	Kind PartyKind

	CompanyName   string
	ContactPerson string
	FirstName     string
	LastName      string

	// Preformatted single-string address.
	Address string

	// Structured billing address group.
	BillingStreet     string
	BillingCity       string
	BillingState      string
	BillingPostalCode string
	BillingCountry    string

	// Legacy flat address-line group.
	Line1      string
	Line2      string
	City       string
	Province   string
	PostalCode string
	Country    string
}

// PartyView is the canonical display form of a party.
type PartyView struct {
	DisplayName  string
	AddressLines string
}

// Normalize resolves one canonical name and address from a party's
// overlapping field shapes. It never fails: a record with nothing usable
// resolves to placeholder text and an empty address.
func Normalize(p PartySource) PartyView {
	view := PartyView{
		DisplayName:  resolveName(p),
		AddressLines: resolveAddress(p),
	}
	if view.DisplayName == "" {
		slog.Warn("party has no resolvable name", "error", &InvalidPartyDataError{Kind: p.Kind})
		if p.Kind == PartyCompany {
			view.DisplayName = "Unknown Company"
		} else {
			view.DisplayName = "Unknown Client"
		}
	}
	return view
}

// resolveName applies the fixed priority order: explicit company name,
// contact person, then first/last name concatenation.
func resolveName(p PartySource) string {
	if name := strings.TrimSpace(p.CompanyName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.ContactPerson); name != "" {
		return name
	}
	return joinFragments(" ", p.FirstName, p.LastName)
}

// resolveAddress tries each address group whole, in priority order. Groups
// are never mixed: the first group holding any non-empty fragment wins even
// if a later group is more complete.
func resolveAddress(p PartySource) string {
	if billing := joinFragments(", ",
		p.BillingStreet, p.BillingCity, p.BillingState, p.BillingPostalCode, p.BillingCountry); billing != "" {
		return billing
	}
	if addr := strings.TrimSpace(p.Address); addr != "" {
		return addr
	}
	return joinFragments(", ",
		p.Line1, p.Line2, p.City, p.Province, p.PostalCode, p.Country)
}

// joinFragments joins trimmed fragments with sep, dropping empty parts.
func joinFragments(sep string, fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, sep)
}

// ClientSource adapts a stored client record for normalization.
func ClientSource(c models.Client) PartySource {
	return PartySource{
		Kind:              PartyClient,
		CompanyName:       strVal(c.CompanyName),
		ContactPerson:     strVal(c.ContactPerson),
		FirstName:         strVal(c.FirstName),
		LastName:          strVal(c.LastName),
		Address:           strVal(c.Address),
		BillingStreet:     strVal(c.BillingStreet),
		BillingCity:       strVal(c.BillingCity),
		BillingState:      strVal(c.BillingState),
		BillingPostalCode: strVal(c.BillingPostalCode),
		BillingCountry:    strVal(c.BillingCountry),
		Line1:             strVal(c.AddressLine1),
		Line2:             strVal(c.AddressLine2),
		City:              strVal(c.City),
		Province:          strVal(c.Province),
		PostalCode:        strVal(c.PostalCode),
		Country:           strVal(c.Country),
	}
}

// CompanySource adapts the company settings record for normalization.
func CompanySource(s models.CompanySettings) PartySource {
	return PartySource{
		Kind:              PartyCompany,
		CompanyName:       strVal(s.CompanyName),
		ContactPerson:     strVal(s.ContactPerson),
		FirstName:         strVal(s.FirstName),
		LastName:          strVal(s.LastName),
		Address:           strVal(s.Address),
		BillingStreet:     strVal(s.BillingStreet),
		BillingCity:       strVal(s.BillingCity),
		BillingState:      strVal(s.BillingState),
		BillingPostalCode: strVal(s.BillingPostalCode),
		BillingCountry:    strVal(s.BillingCountry),
		Line1:             strVal(s.AddressLine1),
		Line2:             strVal(s.AddressLine2),
		City:              strVal(s.City),
		Province:          strVal(s.Province),
		PostalCode:        strVal(s.PostalCode),
		Country:           strVal(s.Country),
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
