package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/recordvault/recordvault/internal/logging"
	"github.com/recordvault/recordvault/internal/server/models"
)

// RecordLifecycle is the slice of services.RecordService the handlers use.
type RecordLifecycle interface {
	Create(ctx context.Context, ownerID string, payload io.Reader, size int64, originalName string, metadata map[string]any) (*models.Record, error)
	List(ctx context.Context, ownerID string) ([]*models.Record, error)
	Delete(ctx context.Context, ownerID, recordID string) error
}

// ShareIssuer is the slice of services.ShareService the handlers use.
type ShareIssuer interface {
	Issue(ctx context.Context, ownerID, recordID string, ttl time.Duration) (string, time.Time, error)
}

// Retriever is the slice of services.RetrievalService the handlers use.
type Retriever interface {
	FetchAsOwner(ctx context.Context, ownerID, recordID string) (string, io.ReadCloser, error)
	FetchByToken(ctx context.Context, token string) (string, io.ReadCloser, error)
}

// RecordsHandler serves the owner-facing record endpoints and the public
// share download.
type RecordsHandler struct {
	records   RecordLifecycle
	shares    ShareIssuer
	retrieval Retriever
	logger    logging.Logger

	maxUploadBytes int64
}

func NewRecordsHandler(records RecordLifecycle, shares ShareIssuer, retrieval Retriever, maxUploadBytes int64, logger logging.Logger) *RecordsHandler {
	return &RecordsHandler{
		records:        records,
		shares:         shares,
		retrieval:      retrieval,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// recordResponse is the owner-visible view of a record. Share fields are
// present only while the token is active; the token download path never
// sees this shape at all.
type recordResponse struct {
	ID                string         `json:"id"`
	OriginalName      string         `json:"originalName"`
	UploadDate        time.Time      `json:"uploadDate"`
	Metadata          map[string]any `json:"metadata"`
	ShareToken        *string        `json:"shareToken,omitempty"`
	ShareTokenExpires *time.Time     `json:"shareTokenExpires,omitempty"`
}

func toRecordResponse(r *models.Record) recordResponse {
	resp := recordResponse{
		ID:           r.ID,
		OriginalName: r.OriginalName,
		UploadDate:   r.UploadDate,
		Metadata:     r.Metadata,
	}
	if r.ShareActive(time.Now()) {
		resp.ShareToken = r.ShareToken
		resp.ShareTokenExpires = r.ShareTokenExpires
	}
	return resp
}

// Upload handles POST /api/upload. Multipart form: "file" (required),
// "metadata" (optional JSON object, stored as-is).
func (h *RecordsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	metadata, err := parseMetadataField(r.FormValue("metadata"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid metadata")
		return
	}

	record, err := h.records.Create(r.Context(), user.ID, file, header.Size, header.Filename, metadata)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(record))
}

// List handles GET /api/records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	records, err := h.records.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// Download handles GET /api/records/{id}: streams the file back to its
// owner under the original name.
func (h *RecordsHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	name, stream, err := h.retrieval.FetchAsOwner(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	h.streamAttachment(r.Context(), w, name, stream)
}

// Delete handles DELETE /api/records/{id}.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.records.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}

type shareRequest struct {
	TTLSeconds int64 `json:"ttlSeconds"`
}

type shareResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Share handles POST /api/records/{id}/share. An optional JSON body may
// carry ttlSeconds; otherwise the configured default lifetime applies.
func (h *RecordsHandler) Share(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req shareRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	token, expires, err := h.shares.Issue(r.Context(), user.ID, chi.URLParam(r, "id"),
		time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{Token: token, Expires: expires})
}

// SharedDownload handles GET /api/share/{token}: the unauthenticated path
// for share-link holders.
func (h *RecordsHandler) SharedDownload(w http.ResponseWriter, r *http.Request) {
	name, stream, err := h.retrieval.FetchByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	h.streamAttachment(r.Context(), w, name, stream)
}

func (h *RecordsHandler) streamAttachment(ctx context.Context, w http.ResponseWriter, name string, stream io.ReadCloser) {
	defer stream.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := io.Copy(w, stream); err != nil {
		// headers are out; all we can do is note the broken transfer
		h.logger.Warn(ctx, "download stream interrupted", "error", err)
	}
}

func parseMetadataField(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
