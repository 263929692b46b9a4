package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpress/ledgerpress/models"
	"github.com/ledgerpress/ledgerpress/numbering"
)

const documentSelectQuery = `SELECT d.id, d.doc_type, d.number, d.client_id, d.issue_date, d.due_date,
	d.reference, d.currency, d.notes, d.terms, d.tax_rate, d.subtotal, d.tax_amount, d.total,
	d.created_at, d.updated_at,
	COALESCE(NULLIF(c.company_name, ''), NULLIF(c.contact_person, ''),
		TRIM(COALESCE(c.first_name, '') || ' ' || COALESCE(c.last_name, '')))
	FROM documents d
	LEFT JOIN clients c ON d.client_id = c.id`

func scanDocument(scanner interface{ Scan(...any) error }) (models.Document, error) {
	var d models.Document
	var taxRate, subtotal, taxAmount, total decimal.NullDecimal
	err := scanner.Scan(&d.ID, &d.DocType, &d.Number, &d.ClientID, &d.IssueDate, &d.DueDate,
		&d.Reference, &d.Currency, &d.Notes, &d.Terms, &taxRate, &subtotal, &taxAmount, &total,
		&d.CreatedAt, &d.UpdatedAt, &d.ClientName)
	if err != nil {
		return d, err
	}
	d.TaxRate = nullDecimalPtr(taxRate)
	d.Subtotal = nullDecimalPtr(subtotal)
	d.TaxAmount = nullDecimalPtr(taxAmount)
	d.Total = nullDecimalPtr(total)
	return d, nil
}

func nullDecimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	return &n.Decimal
}

func loadLineItems(documentID string) ([]models.LineItem, error) {
	rows, err := DB.Query(`SELECT id, document_id, position, description, quantity, unit, rate, discount, amount
		FROM line_items WHERE document_id = ? ORDER BY position`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		var amount decimal.NullDecimal
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.Position, &item.Description,
			&item.Quantity, &item.Unit, &item.Rate, &item.Discount, &amount); err != nil {
			return nil, err
		}
		item.Amount = nullDecimalPtr(amount)
		items = append(items, item)
	}
	return items, rows.Err()
}

func getDocumentByID(id string) (models.Document, error) {
	doc, err := scanDocument(DB.QueryRow(documentSelectQuery+" WHERE d.id = ?", id))
	if err != nil {
		return doc, err
	}
	doc.Items, err = loadLineItems(id)
	return doc, err
}

// existingNumbers returns every number already issued for a document type.
func existingNumbers(docType string) ([]string, error) {
	rows, err := DB.Query("SELECT number FROM documents WHERE doc_type = ? AND number IS NOT NULL", docType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// ListDocuments lists all documents
// @Summary      List documents
// @Description  Get a list of all quotations and invoices.
// @Tags         documents
// @Produce      json
// @Param        doc_type   query     string  false  "Filter by type (quotation/invoice)"
// @Param        client_id  query     string  false  "Filter by client"
// @Param        search     query     string  false  "Search by number, reference, or notes"
// @Param        from       query     string  false  "Issue date from (YYYY-MM-DD)"
// @Param        to         query     string  false  "Issue date to (YYYY-MM-DD)"
// @Success      200        {object}  Response{data=[]models.Document}
// @Router       /documents [get]
// @Security     BasicAuth
func ListDocuments(w http.ResponseWriter, r *http.Request) {
	query := documentSelectQuery
	var conditions []string
	var args []any

	if t := r.URL.Query().Get("doc_type"); t != "" {
		conditions = append(conditions, "d.doc_type = ?")
		args = append(args, t)
	}
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		conditions = append(conditions, "d.client_id = ?")
		args = append(args, cid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "d.issue_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "d.issue_date <= ?")
		args = append(args, to)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(d.number LIKE ? OR d.reference LIKE ? OR d.notes LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY d.created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		documents = append(documents, doc)
	}
	if documents == nil {
		documents = []models.Document{}
	}
	writeJSON(w, http.StatusOK, documents)
}

// GetDocument retrieves a single document by ID
// @Summary      Get document
// @Description  Get a document with its line items.
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  Response{data=models.Document}
// @Failure      404  {object}  Response{error=string}
// @Router       /documents/{id} [get]
// @Security     BasicAuth
func GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := getDocumentByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "document not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CreateDocument creates a new document
// @Summary      Create document
// @Description  Create a new quotation or invoice. A document number is issued at this first save and never changes afterwards.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        document  body      models.DocumentInput  true  "Document contents"
// @Success      201       {object}  Response{data=models.Document}
// @Failure      400       {object}  Response{error=string}
// @Router       /documents [post]
// @Security     BasicAuth
func CreateDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// Numbers are issued exactly once, at first save. An explicitly
	// supplied number (e.g. an import) is kept as given.
	number := input.Number
	if number == nil || *number == "" {
		issued, err := existingNumbers(input.DocType)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		doc := models.Document{DocType: input.DocType}
		n := numbering.Next(doc.TypeCode(), issued, time.Now())
		number = &n
	}

	id := uuid.NewString()
	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(DB.Rebind(`INSERT INTO documents (id, doc_type, number, client_id, issue_date, due_date,
		reference, currency, notes, terms, tax_rate, subtotal, tax_amount, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, input.DocType, number, input.ClientID, input.IssueDate, input.DueDate,
		input.Reference, input.Currency, input.Notes, input.Terms,
		input.TaxRate, input.Subtotal, input.TaxAmount, input.Total)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := insertLineItems(tx, id, input.Items); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc, err := getDocumentByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created document: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// UpdateDocument updates an existing document
// @Summary      Update document
// @Description  Update a document's contents. The document number is immutable and is never changed by updates.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id        path      string                true  "Document ID"
// @Param        document  body      models.DocumentInput  true  "Updated document contents"
// @Success      200       {object}  Response{data=models.Document}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /documents/{id} [put]
// @Security     BasicAuth
func UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	// The assigned number is deliberately absent from the SET list.
	res, err := tx.Exec(DB.Rebind(`UPDATE documents SET client_id = ?, issue_date = ?, due_date = ?,
		reference = ?, currency = ?, notes = ?, terms = ?, tax_rate = ?, subtotal = ?, tax_amount = ?,
		total = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		input.ClientID, input.IssueDate, input.DueDate, input.Reference, input.Currency,
		input.Notes, input.Terms, input.TaxRate, input.Subtotal, input.TaxAmount, input.Total, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	if _, err := tx.Exec(DB.Rebind("DELETE FROM line_items WHERE document_id = ?"), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := insertLineItems(tx, id, input.Items); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc, err := getDocumentByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated document: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// @Summary      Delete document
// @Description  Remove a document and its line items. Its number is never reissued.
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /documents/{id} [delete]
// @Security     BasicAuth
func DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func insertLineItems(tx *sql.Tx, documentID string, items []models.LineItemInput) error {
	for i, item := range items {
		_, err := tx.Exec(DB.Rebind(`INSERT INTO line_items (id, document_id, position, description, quantity, unit, rate, discount, amount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			uuid.NewString(), documentID, i, item.Description, item.Quantity, item.Unit,
			item.Rate, item.Discount, item.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}
