package v1

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/townplan/assessment-portal/internal/service/mappers"
)

const maxDocumentSize = 32 << 20

// (POST /api/v1/jobs/{id}/documents/{documentId})
func (h *PortalHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentId")

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document, err := h.documentSrv.Upload(r.Context(), job.ID, documentID, header.Filename, contentType, header.Size, file)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.DocumentToApi(*document))
}

// (GET /api/v1/jobs/{id}/documents/{documentId})
func (h *PortalHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentId")

	rc, document, err := h.documentSrv.Download(r.Context(), job.ID, documentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", document.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.OriginalName))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

// (DELETE /api/v1/jobs/{id}/documents/{documentId})
func (h *PortalHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentId")

	if err := h.documentSrv.Delete(r.Context(), job.ID, documentID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "deleted"})
}
