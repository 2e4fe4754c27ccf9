package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
	"github.com/a3tai/loadsheet-reader/internal/pdf"
	"github.com/a3tai/loadsheet-reader/internal/render"
	"github.com/a3tai/loadsheet-reader/internal/report"
)

const headerRequestID = "X-Request-ID"

// multipart overhead allowed on top of the file size limit
const formOverhead = 1 << 20

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxFileSize()+formOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("file too large (max: %d bytes)", h.service.MaxFileSize()))
			return
		}

		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid form: %w", err))
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = h.defaultFormat
	}

	renderer, err := render.ByName(format)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")

	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file"))
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := report.Request{
		Data:     data,
		FileName: header.Filename,
		Profile:  r.FormValue("profile"),
		Inputs: loadsheet.Inputs{
			Captain:   r.FormValue("captain"),
			CrewID:    r.FormValue("crew_choice"),
			BlockFuel: r.FormValue("block_fuel"),
		},
	}

	result, err := h.service.Process(r.Context(), req)

	if err != nil {
		if errors.Is(err, pdf.ErrFileTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		if report.IsClientError(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		h.logger.Error("process failed", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer

	if err := renderer.Render(&buf, result.Record); err != nil {
		h.logger.Error("render failed", "request_id", result.RequestID.String(), "format", renderer.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"result.%s\"", renderer.Extension()))
	w.Header().Set(headerRequestID, result.RequestID.String())

	w.Write(buf.Bytes())
}
