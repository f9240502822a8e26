package domain

import "strings"

// View selects which panel the front-end displays.
type View int

const (
	ViewChat View = iota
	ViewResources
	ViewAnalyzer
	ViewVoice
)

var viewNames = [...]string{
	ViewChat:      "chat",
	ViewResources: "resources",
	ViewAnalyzer:  "analyzer",
	ViewVoice:     "voice",
}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

func (v View) Valid() bool {
	return v >= ViewChat && v <= ViewVoice
}

func ParseView(s string) (View, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewNames {
		if n == name {
			return View(i), nil
		}
	}
	return 0, ErrUnknownView
}

func (v View) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, ErrUnknownView
	}
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(b []byte) error {
	parsed, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
