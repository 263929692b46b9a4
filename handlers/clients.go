package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ledgerpress/ledgerpress/models"
)

const clientColumns = `id, company_name, contact_person, first_name, last_name, email, phone,
	address, billing_street, billing_city, billing_state, billing_postal_code, billing_country,
	address_line1, address_line2, city, province, postal_code, country, created_at, updated_at`

const clientSelectQuery = `SELECT ` + clientColumns + ` FROM clients`

func scanClient(scanner interface{ Scan(...any) error }) (models.Client, error) {
	var c models.Client
	err := scanner.Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone,
		&c.Address, &c.BillingStreet, &c.BillingCity, &c.BillingState, &c.BillingPostalCode, &c.BillingCountry,
		&c.AddressLine1, &c.AddressLine2, &c.City, &c.Province, &c.PostalCode, &c.Country,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListClients lists all clients
// @Summary      List clients
// @Description  Get a list of all billed clients.
// @Tags         clients
// @Produce      json
// @Param        search  query     string  false  "Search by any name field or email"
// @Success      200     {object}  Response{data=[]models.Client}
// @Router       /clients [get]
// @Security     BasicAuth
func ListClients(w http.ResponseWriter, r *http.Request) {
	query := clientSelectQuery
	var args []any
	var conditions []string

	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions,
			"(company_name LIKE ? OR contact_person LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s, s, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		clients = append(clients, c)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

// GetClient retrieves a single client by ID
// @Summary      Get client
// @Description  Get details of a specific client.
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  Response{data=models.Client}
// @Failure      404  {object}  Response{error=string}
// @Router       /clients/{id} [get]
// @Security     BasicAuth
func GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := scanClient(DB.QueryRow(clientSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateClient creates a new client
// @Summary      Create client
// @Description  Create a new client. Any of the historical name/address shapes may be supplied.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        client  body      models.ClientInput  true  "Client contents"
// @Success      201     {object}  Response{data=models.Client}
// @Failure      400     {object}  Response{error=string}
// @Router       /clients [post]
// @Security     BasicAuth
func CreateClient(w http.ResponseWriter, r *http.Request) {
	var input models.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO clients (id, company_name, contact_person, first_name, last_name, email, phone,
		address, billing_street, billing_city, billing_state, billing_postal_code, billing_country,
		address_line1, address_line2, city, province, postal_code, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.CompanyName, input.ContactPerson, input.FirstName, input.LastName, input.Email, input.Phone,
		input.Address, input.BillingStreet, input.BillingCity, input.BillingState, input.BillingPostalCode, input.BillingCountry,
		input.AddressLine1, input.AddressLine2, input.City, input.Province, input.PostalCode, input.Country)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	c, err := scanClient(DB.QueryRow(clientSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created client: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateClient updates an existing client
// @Summary      Update client
// @Description  Update details of an existing client.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id      path      string              true  "Client ID"
// @Param        client  body      models.ClientInput  true  "Updated client contents"
// @Success      200     {object}  Response{data=models.Client}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Router       /clients/{id} [put]
// @Security     BasicAuth
func UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE clients SET company_name = ?, contact_person = ?, first_name = ?, last_name = ?,
		email = ?, phone = ?, address = ?, billing_street = ?, billing_city = ?, billing_state = ?,
		billing_postal_code = ?, billing_country = ?, address_line1 = ?, address_line2 = ?, city = ?,
		province = ?, postal_code = ?, country = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.CompanyName, input.ContactPerson, input.FirstName, input.LastName, input.Email, input.Phone,
		input.Address, input.BillingStreet, input.BillingCity, input.BillingState, input.BillingPostalCode, input.BillingCountry,
		input.AddressLine1, input.AddressLine2, input.City, input.Province, input.PostalCode, input.Country, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	c, err := scanClient(DB.QueryRow(clientSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated client: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteClient deletes a client
// @Summary      Delete client
// @Description  Remove a client.
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /clients/{id} [delete]
// @Security     BasicAuth
func DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
