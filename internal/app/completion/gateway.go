package completion

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

// Gateway turns one utterance into one reply. Every failure, whatever its
// cause, surfaces as domain.ErrCompletionUnavailable. There is no retry.
type Gateway struct {
	client  domain.CompletionClient
	timeout time.Duration
}

func NewGateway(client domain.CompletionClient, timeout time.Duration) *Gateway {
	return &Gateway{
		client:  client,
		timeout: timeout,
	}
}

func (g *Gateway) Complete(ctx context.Context, utterance string, convCtx domain.ConversationContext) (string, error) {
	log := observability.LoggerFromContext(ctx).With("conversation_id", convCtx.ConversationID)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.client.Complete(ctx, utterance, convCtx)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("completion failed", "error", err, "elapsed_ms", elapsed.Milliseconds())
		return "", errors.Wrap(domain.ErrCompletionUnavailable, err.Error())
	}
	if strings.TrimSpace(reply) == "" {
		log.Warn("completion returned empty reply", "elapsed_ms", elapsed.Milliseconds())
		return "", errors.Wrap(domain.ErrCompletionUnavailable, "empty reply")
	}

	log.Info("completion done", "elapsed_ms", elapsed.Milliseconds(), "reply_len", len(reply))
	return reply, nil
}
