package bot

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatops-lab/sparkrelay/internal/nlu"
	"github.com/chatops-lab/sparkrelay/internal/observability/metrics"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

// nluContextName is the auxiliary context sent with every query so the
// backend can correlate room-specific state.
const nluContextName = "spark"

type nluClient interface {
	Query(ctx context.Context, req nlu.QueryRequest) (*nlu.QueryResponse, error)
}

// AnswerKind tags the three non-error outcomes of an NLU turn.
type AnswerKind int

const (
	// AnswerReply carries speech text and optional attachments.
	AnswerReply AnswerKind = iota
	// AnswerEmptySpeech means the backend matched but returned no text.
	AnswerEmptySpeech
	// AnswerEmptyResult means the backend answer carried no result at all.
	AnswerEmptyResult
)

// Answer is the reply payload for one conversational turn.
type Answer struct {
	Kind  AnswerKind
	Text  string
	Files []string
}

// Gateway translates a normalized message plus session context into an NLU
// query and the structured response back into a reply payload.
type Gateway struct {
	nlu     nluClient
	logger  *logging.Logger
	metrics *metrics.BotMetrics
	tracer  trace.Tracer
}

func NewGateway(client nluClient, logger *logging.Logger, m *metrics.BotMetrics) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{
		nlu:     client,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("sparkrelay.internal.bot.gateway"),
	}
}

// Ask runs one NLU turn. A transport or backend error returns err; the
// caller acknowledges the webhook and never surfaces it to the room.
func (g *Gateway) Ask(ctx context.Context, cleanText, sessionID, roomID string) (Answer, error) {
	ctx, span := g.tracer.Start(ctx, "bot.gateway.ask")
	defer span.End()

	start := time.Now()
	resp, err := g.nlu.Query(ctx, nlu.QueryRequest{
		Query:     cleanText,
		SessionID: sessionID,
		Contexts: []nlu.Context{{
			Name:       nluContextName,
			Parameters: map[string]string{"roomId": roomID},
		}},
	})
	g.metrics.ObserveNLULatency(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return Answer{}, fmt.Errorf("bot: nlu query: %w", err)
	}

	if resp.Result == nil {
		return Answer{Kind: AnswerEmptyResult}, nil
	}
	speech := resp.Result.Fulfillment.Speech
	if speech == "" {
		return Answer{Kind: AnswerEmptySpeech}, nil
	}

	answer := Answer{Kind: AnswerReply, Text: speech}
	// First image part wins; the platform accepts a single attachment per
	// message anyway.
	for _, part := range resp.Result.Fulfillment.Parts {
		if part.Kind == nlu.PartImage && part.ImageURL != "" {
			answer.Files = []string{part.ImageURL}
			break
		}
	}
	return answer, nil
}
