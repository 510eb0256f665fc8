package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domevent "example.com/localspark/app/internal/domain/event"
	domproduct "example.com/localspark/app/internal/domain/product"
	"example.com/localspark/app/internal/infra/export"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize   = 10 << 20
)

func (a *API) handleCatalogReport(w http.ResponseWriter, r *http.Request) {
	products, _, err := a.productSvc.List(r.Context(), domproduct.ListFilter{IncludeInactive: true})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	events, _, err := a.eventSvc.List(r.Context(), domevent.ListFilter{IncludeInactive: true})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	// Render fully before writing headers so a failure can still become a 500.
	var buf bytes.Buffer
	if err := export.WriteCatalog(&buf, products, events); err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	name := fmt.Sprintf("catalog-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleImportProducts accepts a workbook either as the raw body or as the
// "file" field of a multipart form.
func (a *API) handleImportProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		defer file.Close()
		src = file
	}

	products, err := export.ReadProducts(src)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.productSvc.Import(r.Context(), products)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	skipped := make([]map[string]any, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		skipped = append(skipped, map[string]any{"name": s.Name, "reason": s.Reason})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"created": res.Created,
		"skipped": skipped,
	})
}
