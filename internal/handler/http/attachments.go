package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/utils"
	"github.com/reqdesk/reqdesk/models"
)

// multipartMemoryLimit caps how much of a multipart body is buffered in
// memory before spilling to temporary files.
const multipartMemoryLimit = 8 << 20

// uploadAttachment accepts a multipart form with a single "file" part and
// stores it as an attachment of the request.
func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		log.Err(err).Msg("invalid multipart form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("missing file part")
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	attachment := models.Attachment{
		RequestID: requestID,
		FileName:  header.Filename,
		MimeType:  header.Header.Get("Content-Type"),
	}

	created, err := h.services.AttachmentService.Upload(ctx, caller, attachment, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", created.AttachmentID).Int64("request_id", requestID).Int64("size", created.Size).Msg("attachment uploaded")
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) listAttachments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	list, err := h.services.AttachmentService.List(ctx, caller, requestID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

// downloadAttachment streams the payload back under the original file name
// and MIME type.
func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}
	attachmentID, err := strconv.ParseInt(chi.URLParam(r, "attachmentID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid attachment id", http.StatusBadRequest)
		return
	}

	attachment, payload, err := h.services.AttachmentService.Download(ctx, caller, requestID, attachmentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer payload.Close()

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))

	if _, err := io.Copy(w, payload); err != nil {
		log.Err(err).Int64("id", attachmentID).Msg("attachment streaming failed")
	}
}
