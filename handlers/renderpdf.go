package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerpress/ledgerpress/models"
	"github.com/ledgerpress/ledgerpress/render"
)

// RenderDocumentPDF renders a document as a paginated PDF
// @Summary      Render document PDF
// @Description  Produce the printable multi-page PDF for a quotation or invoice. A document rendered before its number was issued receives one here, persisted on the spot.
// @Tags         documents
// @Produce      application/pdf
// @Param        id   path      string  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  Response{error=string}
// @Failure      500  {object}  Response{error=string}
// @Router       /documents/{id}/pdf [get]
// @Security     BasicAuth
func RenderDocumentPDF(w http.ResponseWriter, r *http.Request) {
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

	settings, err := loadCompanySettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var client models.Client
	if doc.ClientID != nil {
		client, err = scanClient(DB.QueryRow(clientSelectQuery+" WHERE id = ?", *doc.ClientID))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	req := render.Request{Document: doc, Client: client, Company: settings}
	if doc.Number == nil || *doc.Number == "" {
		issued, err := existingNumbers(doc.DocType)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		req.ExistingNumbers = issued
	}

	artifact, err := render.Render(r.Context(), req)
	if err != nil {
		slog.Error("document render failed", "document", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if artifact.NumberAssigned {
		if _, err := DB.Exec("UPDATE documents SET number = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND number IS NULL",
			artifact.Number, id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist document number: "+err.Error())
			return
		}
	}

	slog.Info("document rendered", "document", id, "number", artifact.Number,
		"pages", artifact.PageCount, "bytes", len(artifact.PDF))

	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.PDF)))
	w.Write(artifact.PDF)
}
