package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

type Result struct {
	Stats       Stats     `json:"stats"`
	Report      string    `json:"report"`
	ContentType string    `json:"content_type"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
}

// State is what the analyzer panel shows.
type State struct {
	Analyzing bool    `json:"analyzing"`
	Result    *Result `json:"result,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Service runs analyses and remembers the outcome of the last one.
type Service struct {
	maxBytes int64
	metrics  *observability.Metrics
	now      func() time.Time
	decode   func([]byte) ([]float64, error)

	mu        sync.RWMutex
	analyzing bool
	last      *Result
	lastErr   error
}

func NewService(maxBytes int64, metrics *observability.Metrics) *Service {
	return &Service{
		maxBytes: maxBytes,
		metrics:  metrics,
		now:      time.Now,
		decode:   Intensities,
	}
}

// Analyze validates, decodes and measures an uploaded image. Validation
// failures leave the previous result in place; a decode failure replaces it
// with the error.
func (s *Service) Analyze(ctx context.Context, data []byte) (*Result, error) {
	log := observability.LoggerFromContext(ctx).With("bytes", len(data))

	contentType, err := Validate(data, s.maxBytes)
	if err != nil {
		log.Warn("image rejected", "error", err)
		s.metrics.AnalysisOutcome(observability.OutcomeRejected)
		return nil, err
	}

	s.setAnalyzing(true)
	defer s.setAnalyzing(false)

	res, err := s.analyze(data, contentType)

	s.mu.Lock()
	s.last, s.lastErr = res, err
	s.mu.Unlock()

	if err != nil {
		log.Error("image analysis failed", "error", err)
		s.metrics.AnalysisOutcome(observability.OutcomeFailed)
		return nil, err
	}

	log.Info("image analyzed",
		"content_type", contentType,
		"pixels", res.Stats.PixelCount,
		"high_pressure", res.Stats.HighPressureCount,
	)
	s.metrics.AnalysisOutcome(observability.OutcomeOK)
	return res, nil
}

func (s *Service) analyze(data []byte, contentType string) (*Result, error) {
	intensities, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	stats, err := Compute(intensities)
	if err != nil {
		return nil, err
	}
	report, err := Report(stats)
	if err != nil {
		return nil, errors.Wrap(domain.ErrAnalysisFailed, err.Error())
	}

	return &Result{
		Stats:       stats,
		Report:      report,
		ContentType: contentType,
		AnalyzedAt:  s.now(),
	}, nil
}

func (s *Service) setAnalyzing(flag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = flag
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{Analyzing: s.analyzing}
	if s.last != nil {
		cp := *s.last
		st.Result = &cp
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

// LastReport returns the downloadable copy of the last successful report.
func (s *Service) LastReport() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return nil, domain.ErrNoAnalysis
	}
	return DownloadReport(s.last.Report), nil
}
