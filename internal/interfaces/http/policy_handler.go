package http

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/ronled86/InsuraIQ/internal/application/policies"
	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/interfaces/http/middleware"
)

// PolicyHandler serves the policy CRUD and import endpoints.
type PolicyHandler struct {
	svc            *policies.Service
	logger         logging.Logger
	maxUploadBytes int64
}

// NewPolicyHandler constructs the policy handler.
func NewPolicyHandler(svc *policies.Service, maxUploadBytes int64, logger logging.Logger) *PolicyHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &PolicyHandler{svc: svc, logger: logger.Named("http.policies"), maxUploadBytes: maxUploadBytes}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *PolicyHandler) create(w http.ResponseWriter, r *http.Request) {
	var p policy.Policy
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	userID := middleware.ContextGetUserID(r.Context())
	if err := h.svc.Create(r.Context(), userID, &p); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, &p)
}

func (h *PolicyHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := middleware.ContextGetUserID(r.Context())
	items, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []*policy.Policy{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *PolicyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid policy id")
		return
	}
	userID := middleware.ContextGetUserID(r.Context())
	p, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PolicyHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid policy id")
		return
	}
	var p policy.Policy
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	p.ID = id
	userID := middleware.ContextGetUserID(r.Context())
	if err := h.svc.Update(r.Context(), userID, &p); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

func (h *PolicyHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid policy id")
		return
	}
	userID := middleware.ContextGetUserID(r.Context())
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// uploadCSV bulk-imports policies from a multipart "file" part holding CSV.
func (h *PolicyHandler) uploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	userID := middleware.ContextGetUserID(r.Context())
	result, err := h.svc.ImportCSV(r.Context(), userID, file)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// importDocument imports a single policy from an uploaded document. The
// multipart "file" part carries the original bytes for retention; the
// optional "text" form value overrides the decoded text, otherwise the file
// bytes are treated as plain text.
func (h *PolicyHandler) importDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "failed to read uploaded file")
		return
	}

	text := r.FormValue("text")
	if text == "" {
		text = string(raw)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userID := middleware.ContextGetUserID(r.Context())
	p, err := h.svc.ImportDocument(r.Context(), userID, policies.DocumentUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Text:        text,
		Raw:         strings.NewReader(string(raw)),
		Size:        int64(len(raw)),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// downloadDocument streams the stored source document of a policy.
func (h *PolicyHandler) downloadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid policy id")
		return
	}
	userID := middleware.ContextGetUserID(r.Context())
	rc, p, err := h.svc.OpenDocument(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	filename := p.OriginalFilename
	if filename == "" {
		filename = "document"
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("document stream interrupted", logging.Err(err))
	}
}
