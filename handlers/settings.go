package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerpress/ledgerpress/models"
)

const settingsSelectQuery = `SELECT company_name, contact_person, first_name, last_name, email, phone,
	address, billing_street, billing_city, billing_state, billing_postal_code, billing_country,
	address_line1, address_line2, city, province, postal_code, country,
	currency_code, tax_rate, bank_name, bank_account, bank_branch_code,
	logo_path, stamp_path, signature_path, updated_at
	FROM company_settings WHERE id = 1`

func loadCompanySettings() (models.CompanySettings, error) {
	var s models.CompanySettings
	err := DB.QueryRow(settingsSelectQuery).Scan(
		&s.CompanyName, &s.ContactPerson, &s.FirstName, &s.LastName, &s.Email, &s.Phone,
		&s.Address, &s.BillingStreet, &s.BillingCity, &s.BillingState, &s.BillingPostalCode, &s.BillingCountry,
		&s.AddressLine1, &s.AddressLine2, &s.City, &s.Province, &s.PostalCode, &s.Country,
		&s.CurrencyCode, &s.TaxRate, &s.BankName, &s.BankAccount, &s.BankBranchCode,
		&s.LogoPath, &s.StampPath, &s.SignaturePath, &s.UpdatedAt)
	return s, err
}

// GetSettings retrieves the company settings
// @Summary      Get company settings
// @Description  Get the issuing company's profile, defaults, and asset paths.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  Response{data=models.CompanySettings}
// @Router       /settings [get]
// @Security     BasicAuth
func GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := loadCompanySettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettings updates the company settings
// @Summary      Update company settings
// @Description  Update the issuing company's profile, defaults, and asset paths.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        settings  body      models.CompanySettingsInput  true  "Company settings"
// @Success      200       {object}  Response{data=models.CompanySettings}
// @Failure      400       {object}  Response{error=string}
// @Router       /settings [put]
// @Security     BasicAuth
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input models.CompanySettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := DB.Exec(`UPDATE company_settings SET company_name = ?, contact_person = ?, first_name = ?,
		last_name = ?, email = ?, phone = ?, address = ?, billing_street = ?, billing_city = ?,
		billing_state = ?, billing_postal_code = ?, billing_country = ?, address_line1 = ?,
		address_line2 = ?, city = ?, province = ?, postal_code = ?, country = ?,
		currency_code = COALESCE(NULLIF(?, ''), currency_code), tax_rate = COALESCE(?, tax_rate),
		bank_name = ?, bank_account = ?, bank_branch_code = ?,
		logo_path = ?, stamp_path = ?, signature_path = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		input.CompanyName, input.ContactPerson, input.FirstName, input.LastName, input.Email, input.Phone,
		input.Address, input.BillingStreet, input.BillingCity, input.BillingState, input.BillingPostalCode,
		input.BillingCountry, input.AddressLine1, input.AddressLine2, input.City, input.Province,
		input.PostalCode, input.Country, input.CurrencyCode, input.TaxRate,
		input.BankName, input.BankAccount, input.BankBranchCode,
		input.LogoPath, input.StampPath, input.SignaturePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s, err := loadCompanySettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}
