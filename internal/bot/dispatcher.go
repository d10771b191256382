package bot

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatops-lab/sparkrelay/internal/observability/metrics"
	"github.com/chatops-lab/sparkrelay/internal/spark"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

type messageSender interface {
	SendMessage(ctx context.Context, req spark.SendMessageRequest) (*spark.Message, error)
}

// Dispatcher posts reply payloads to the chat platform. Delivery failures
// are logged and counted, never retried; the webhook ack has usually been
// written by then.
type Dispatcher struct {
	sender  messageSender
	logger  *logging.Logger
	metrics *metrics.BotMetrics
	tracer  trace.Tracer
}

func NewDispatcher(sender messageSender, logger *logging.Logger, m *metrics.BotMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("sparkrelay.internal.bot.dispatcher"),
	}
}

// Send posts one message to a room. Attachment URLs are passed through
// opaquely; the platform fetches them itself.
func (d *Dispatcher) Send(ctx context.Context, roomID, text string, files []string) error {
	ctx, span := d.tracer.Start(ctx, "bot.dispatcher.send")
	defer span.End()

	_, err := d.sender.SendMessage(ctx, spark.SendMessageRequest{
		RoomID: roomID,
		Text:   text,
		Files:  files,
	})
	if err != nil {
		span.RecordError(err)
		d.metrics.ObserveReply("failed")
		d.logger.Error("reply delivery failed", "room_id", roomID, "error", err)
		return fmt.Errorf("bot: send reply: %w", err)
	}
	d.metrics.ObserveReply("sent")
	return nil
}
