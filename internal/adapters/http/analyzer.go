package httpadapter

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/PabloGalante/fluid101/internal/app/analysis"
	"github.com/PabloGalante/fluid101/internal/domain"
)

// multipartOverhead is the slack allowed on top of the image limit for the
// multipart envelope.
const multipartOverhead = 1 << 20

var errMissingFile = errors.New("multipart form has no file field")

func (s *Server) handleAnalyzerState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.panels.Analyzer())
}

// handleAnalyze accepts either a multipart form with a "file" field or the
// raw image as the request body.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	// Read one byte past the limit so Validate can tell "too large" apart.
	limit := s.maxImage + 1

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(io.LimitReader(r.Body, limit))
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxImage+multipartOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.Wrap(domain.ErrImageTooLarge, "multipart body")
		}
		return nil, errMissingFile
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, limit))
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	body, err := s.analyzer.LastReport()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": analysis.ReportFilename,
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
