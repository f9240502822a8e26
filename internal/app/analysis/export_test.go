package analysis

// SetDecoder swaps the pixel decoder so tests can hold an analysis in flight.
func (s *Service) SetDecoder(decode func([]byte) ([]float64, error)) {
	s.decode = decode
}
