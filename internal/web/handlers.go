package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/synthdata/internal/core"
	"github.com/JonMunkholm/synthdata/internal/export"
	"github.com/JonMunkholm/synthdata/internal/logging"
	"github.com/JonMunkholm/synthdata/internal/schema"
	"github.com/JonMunkholm/synthdata/internal/web/templates"
)

// maxDocumentBytes bounds an API schema document.
const maxDocumentBytes = 1 << 20

// errBadDocument marks request bodies that could not be read as a schema.
var errBadDocument = errors.New("bad request body")

const (
	headerGenerationID   = "X-Generation-ID"
	headerGenerationSeed = "X-Generation-Seed"
)

// handleIndex renders the form with ?cols=N empty columns.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, templates.PageParams{
		Form: s.blankForm(s.columnCount(r)),
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleGenerateForm answers a form submit with the CSV download.
func (s *Server) handleGenerateForm(w http.ResponseWriter, r *http.Request) {
	form, res, err := s.generateFromForm(w, r)
	if err != nil {
		s.renderFormError(w, r, form, err)
		return
	}
	s.writeCSV(w, r, res)
}

// handlePreviewForm shows the first rows of the table the form describes.
// The seed field is filled in so a following download matches the preview.
func (s *Server) handlePreviewForm(w http.ResponseWriter, r *http.Request) {
	form, res, err := s.generateFromForm(w, r)
	if err != nil {
		s.renderFormError(w, r, form, err)
		return
	}

	setGenerationHeaders(w, res)
	preview := templates.PreviewParams{
		ID:      res.ID,
		Seed:    res.Seed,
		Preview: export.Preview(res.Table, s.cfg.Generation.PreviewRows),
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.PreviewTable(preview).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render preview", "error", err)
		}
		return
	}

	form.Seed = strconv.FormatUint(res.Seed, 10)
	s.renderPage(w, r, http.StatusOK, templates.PageParams{Form: form, Preview: &preview})
}

func (s *Server) generateFromForm(w http.ResponseWriter, r *http.Request) (templates.FormData, *core.Result, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return s.blankForm(s.cfg.Generation.DefaultColumns), nil, fmt.Errorf("%w: %w", errBadDocument, err)
	}

	form := s.readForm(r)
	doc, err := formDocument(form)
	if err != nil {
		return form, nil, err
	}
	res, err := s.generate(r, core.SourceForm, doc)
	return form, res, err
}

// handleColumnTypes lists the supported column kinds.
func (s *Server) handleColumnTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, schema.Kinds())
}

// handleLimits reports request bounds and generator load.
func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Limits())
}

// handleAPIGenerate answers a schema document with the CSV download.
func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.generate(r, core.SourceAPI, doc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeCSV(w, r, res)
}

// previewResponse is the JSON body of /api/preview.
type previewResponse struct {
	ID   string `json:"id"`
	Seed uint64 `json:"seed"`
	export.PreviewData
}

// handleAPIPreview answers a schema document with the first rows as JSON.
func (s *Server) handleAPIPreview(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.generate(r, core.SourceAPI, doc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	setGenerationHeaders(w, res)
	writeJSON(w, previewResponse{
		ID:          res.ID,
		Seed:        res.Seed,
		PreviewData: export.Preview(res.Table, s.cfg.Generation.PreviewRows),
	})
}

// generate checks limits on the raw document before building the schema,
// so oversized requests are refused without further work.
func (s *Server) generate(r *http.Request, source core.Source, doc schema.Document) (*core.Result, error) {
	if err := s.service.CheckLimits(doc.Rows, len(doc.Columns)); err != nil {
		return nil, err
	}
	req, err := doc.Request()
	if err != nil {
		return nil, err
	}
	return s.service.Generate(requestContext(r, source), req)
}

// decodeDocument reads a JSON or YAML schema document from the body,
// chosen by Content-Type. JSON is the default.
func decodeDocument(w http.ResponseWriter, r *http.Request) (schema.Document, error) {
	body := http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	format := schema.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = schema.FormatYAML
	}
	doc, err := schema.Decode(body, format)
	if err != nil {
		return schema.Document{}, fmt.Errorf("%w: %w", errBadDocument, err)
	}
	return doc, nil
}

func setGenerationHeaders(w http.ResponseWriter, res *core.Result) {
	w.Header().Set(headerGenerationID, res.ID)
	w.Header().Set(headerGenerationSeed, strconv.FormatUint(res.Seed, 10))
}

// writeCSV streams res as a CSV attachment.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, res *core.Result) {
	setGenerationHeaders(w, res)
	w.Header().Set("Content-Type", export.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))

	if err := export.WriteCSV(w, res.Table); err != nil {
		// Headers are sent; the client sees a truncated file.
		logging.WithFields(r.Context(), "generation_id", res.ID).Error("write csv", "error", err)
	}
}

// renderPage writes the full page with the given status.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, p templates.PageParams) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(p).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}
