package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"terapis/internal/core"
	"terapis/internal/export"
	applog "terapis/internal/log"
)

var (
	pdfRenderer  export.Renderer = export.PDFRenderer{IncludeMonths: true}
	xlsxRenderer export.Renderer = export.XLSXRenderer{}
)

// handleExport renders the current summary. The locale may be overridden
// with ?lang=en.
func (s *Server) handleExport(r export.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		locale := s.locale
		if v := req.URL.Query().Get("lang"); v != "" {
			locale = core.ParseLocale(v)
		}

		at := s.now()
		summary := export.NewSummary(s.tx.List(req.Context()), at, locale)

		var buf bytes.Buffer
		if err := r.Render(&buf, summary); err != nil {
			s.logs.LogError(req.Context(), "Export render failed", err, applog.ComponentExport, applog.OpExport,
				applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
			InternalServerError("could not render export").Write(w)
			return
		}

		slog.InfoContext(req.Context(), "Summary exported",
			"format", r.Extension(),
			"therapists", len(summary.Rows),
			"bytes", buf.Len())
		NewResponse().
			Body(buf.Bytes(), r.ContentType()).
			Attachment(export.FileName(r, at)).
			Write(w)
	}
}

// handleImportLegacy appends an exported array of records in the legacy or
// canonical shape.
func (s *Server) handleImportLegacy(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		BadRequestError("could not read body").Write(w)
		return
	}

	res, err := s.tx.ImportLegacy(r.Context(), payload)
	if err != nil {
		s.logs.LogError(r.Context(), "Legacy import failed", err, applog.ComponentTransaction, applog.OpImport,
			applog.NewFields().WithErrorType(errorType(err)))
		errorResponse(err).Write(w)
		return
	}
	NewResponse().JSON(res).Write(w)
}
