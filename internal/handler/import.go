package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/importer"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

type rowImporter interface {
	ImportContracts(ctx context.Context, userID uuid.UUID, rows []importer.Row) (*domain.ImportResult, error)
}

type receiptImporter interface {
	ImportReceipts(ctx context.Context, userID uuid.UUID, rows []importer.Row) (*domain.ImportResult, error)
}

type uploadArchive interface {
	Store(ctx context.Context, userID uuid.UUID, kind, filename, contentType string, r io.Reader, size int64) (string, error)
}

type ImportHandler struct {
	contracts rowImporter
	receipts  receiptImporter
	archive   uploadArchive
	maxBytes  int64
}

// NewImportHandler accepts a nil archive, in which case uploads are not kept.
func NewImportHandler(contracts rowImporter, receipts receiptImporter, archive uploadArchive, maxBytes int64) *ImportHandler {
	return &ImportHandler{
		contracts: contracts,
		receipts:  receipts,
		archive:   archive,
		maxBytes:  maxBytes,
	}
}

type importRowErrorDTO struct {
	Row    int    `json:"row"`
	Client string `json:"client"`
	Error  string `json:"error"`
}

type importResultDTO struct {
	Total     int                 `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Details   []importRowErrorDTO `json:"details"`
	Archived  string              `json:"archived,omitempty"`
}

func (h *ImportHandler) Contracts(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, string(importer.TemplateContracts), h.contracts.ImportContracts)
}

func (h *ImportHandler) Receipts(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, string(importer.TemplateReceipts), h.receipts.ImportReceipts)
}

func (h *ImportHandler) handleUpload(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	run func(ctx context.Context, userID uuid.UUID, rows []importer.Row) (*domain.ImportResult, error),
) {
	log := logging.FromContext(r.Context())

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxBytes {
		RespondAppError(w, ErrFileTooLarge, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondAppError(w, ErrFileTooLarge, nil)
			return
		}
		RespondValidationError(w, []FieldError{{Field: "file", Message: "required"}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	format, err := importer.DetectFormat(header.Filename, contentType)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	rows, err := importer.ReadRows(bytes.NewReader(data), format)
	if err != nil {
		log.Warn("import file rejected", "kind", kind, "filename", header.Filename, "error", err)
		RespondDomainError(w, r, err)
		return
	}

	var location string
	if h.archive != nil {
		location, err = h.archive.Store(r.Context(), userID, kind, header.Filename, contentType, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			log.Warn("import archive failed", "kind", kind, "filename", header.Filename, "error", err)
		}
	}

	res, err := run(r.Context(), userID, rows)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	details := make([]importRowErrorDTO, len(res.Details))
	for i, d := range res.Details {
		details[i] = importRowErrorDTO(d)
	}
	RespondSuccess(w, http.StatusOK, importResultDTO{
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Details:   details,
		Archived:  location,
	})
}

func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	kind := importer.TemplateKind(r.PathValue("kind"))

	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf, kind); err != nil {
		RespondDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="modelo-`+string(kind)+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
