package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/fluid101/internal/domain"
)

// MockLLM answers locally without any network call.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(ctx context.Context, utterance string, convCtx domain.ConversationContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("You asked about %q. In CFD terms, start by checking your boundary conditions and mesh quality, then compare against a reference case.", utterance), nil
}

// FailingLLM always fails; handy for exercising the fallback path.
type FailingLLM struct {
	Err error
}

func NewFailingLLM(err error) *FailingLLM {
	if err == nil {
		err = fmt.Errorf("completion service unreachable")
	}
	return &FailingLLM{Err: err}
}

func (f *FailingLLM) Complete(context.Context, string, domain.ConversationContext) (string, error) {
	return "", f.Err
}
