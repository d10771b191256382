package bot

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/chatops-lab/sparkrelay/internal/observability/metrics"
	"github.com/chatops-lab/sparkrelay/internal/session"
	"github.com/chatops-lab/sparkrelay/internal/spark"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

// InboundEvent is the webhook payload announcing a new message. The text
// is not part of the event; it has to be fetched separately.
type InboundEvent struct {
	Resource string    `json:"resource"`
	ID       string    `json:"id"`
	Data     EventData `json:"data"`
}

// EventData is the minimal message reference inside an event.
type EventData struct {
	ID          string `json:"id"`
	RoomID      string `json:"roomId"`
	PersonEmail string `json:"personEmail"`
}

// Outcome is the terminal state of one webhook handling cycle.
type Outcome string

const (
	OutcomeIgnored     Outcome = "ignored"
	OutcomeSelfMessage Outcome = "self_message"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeRefused     Outcome = "refused"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeEmptySpeech Outcome = "empty_speech"
	OutcomeEmptyResult Outcome = "empty_result"
	OutcomeNLUError    Outcome = "nlu_error"
	OutcomeReplied     Outcome = "replied"
)

// Ack is the webhook acknowledgment, decoupled from reply delivery. The
// code is always 200 in normal operation; failures are absorbed so the
// platform does not redeliver the event.
type Ack struct {
	Code    int
	Message string
}

type processedTracker interface {
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

type messageFetcher interface {
	GetMessage(ctx context.Context, id string) (*spark.Message, error)
}

type replySender interface {
	Send(ctx context.Context, roomID, text string, files []string) error
}

// Controller drives the full pipeline for one inbound event: validate,
// dedupe, self-check, authorize, fetch, normalize, resolve session, ask the
// NLU backend, dispatch the reply. It is free of HTTP transport types; the
// Handler adapts its Ack into the wire response.
type Controller struct {
	policy     *Policy
	normalizer *Normalizer
	sessions   *session.Store
	gateway    *Gateway
	dispatcher replySender
	fetcher    messageFetcher
	processed  processedTracker
	logger     *logging.Logger
	metrics    *metrics.BotMetrics

	replyTimeout time.Duration
	inflight     sync.WaitGroup
}

// ControllerConfig wires the controller's collaborators.
type ControllerConfig struct {
	Policy       *Policy
	Normalizer   *Normalizer
	Sessions     *session.Store
	Gateway      *Gateway
	Dispatcher   replySender
	Fetcher      messageFetcher
	Processed    processedTracker
	Logger       *logging.Logger
	Metrics      *metrics.BotMetrics
	ReplyTimeout time.Duration
}

func NewController(cfg ControllerConfig) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = 10 * time.Second
	}
	return &Controller{
		policy:       cfg.Policy,
		normalizer:   cfg.Normalizer,
		sessions:     cfg.Sessions,
		gateway:      cfg.Gateway,
		dispatcher:   cfg.Dispatcher,
		fetcher:      cfg.Fetcher,
		processed:    cfg.Processed,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		replyTimeout: cfg.ReplyTimeout,
	}
}

// HandleEvent processes one webhook event and returns its terminal state
// plus the acknowledgment to write. Every path acks with HTTP 200 so the
// platform never redelivers.
func (c *Controller) HandleEvent(ctx context.Context, evt InboundEvent) (Outcome, Ack) {
	outcome, ack := c.handle(ctx, evt)
	c.metrics.ObserveWebhook(string(outcome))
	return outcome, ack
}

func (c *Controller) handle(ctx context.Context, evt InboundEvent) (Outcome, Ack) {
	if evt.Resource != "messages" || evt.Data.ID == "" {
		c.logger.Debug("ignoring event with unexpected shape", "resource", evt.Resource)
		return OutcomeIgnored, Ack{Code: http.StatusOK, Message: "Ignored"}
	}

	if c.processed != nil && evt.ID != "" {
		fresh, err := c.processed.MarkProcessed(ctx, "spark", evt.ID)
		if err != nil {
			// Fail open: a broken dedupe store must not drop messages.
			c.logger.Error("processed tracker failed", "error", err, "event_id", evt.ID)
		} else if !fresh {
			c.logger.Info("duplicate webhook delivery", "event_id", evt.ID)
			return OutcomeDuplicate, Ack{Code: http.StatusOK, Message: "Duplicate event"}
		}
	}

	sender := evt.Data.PersonEmail
	if c.policy.SelfMessage(sender) {
		c.logger.Debug("message from bot, skipping", "sender", sender)
		return OutcomeSelfMessage, Ack{Code: http.StatusOK, Message: "Ignored"}
	}

	if !c.policy.Authorized(sender) {
		c.logger.Info("unauthorized sender", "sender", sender, "room_id", evt.Data.RoomID)
		refusal := sender + ", unfortunately I cannot answer you since you are not authorized."
		if err := c.dispatcher.Send(ctx, evt.Data.RoomID, refusal, nil); err != nil {
			c.logger.Error("refusal delivery failed", "sender", sender, "error", err)
		}
		return OutcomeRefused, Ack{Code: http.StatusOK, Message: "Reply sent"}
	}

	msg, err := c.fetcher.GetMessage(ctx, evt.Data.ID)
	if err != nil {
		c.logger.Error("failed to load message", "message_id", evt.Data.ID, "error", err)
		return OutcomeFetchFailed, Ack{Code: http.StatusOK, Message: "Error while loading message"}
	}
	if msg.Text == "" || msg.RoomID == "" {
		return OutcomeIgnored, Ack{Code: http.StatusOK, Message: "Ignored"}
	}

	cleanText := c.normalizer.Clean(msg.Text)
	sessionID := c.sessions.GetOrCreate(msg.RoomID)
	c.logger.Debug("relaying message", "room_id", msg.RoomID, "session_id", sessionID)

	answer, err := c.gateway.Ask(ctx, cleanText, sessionID, msg.RoomID)
	if err != nil {
		c.logger.Error("NLU call failed", "room_id", msg.RoomID, "message_id", msg.ID, "error", err)
		return OutcomeNLUError, Ack{Code: http.StatusOK, Message: "Error while call to api.ai"}
	}
	switch answer.Kind {
	case AnswerEmptyResult:
		c.logger.Info("received empty result", "room_id", msg.RoomID)
		return OutcomeEmptyResult, Ack{Code: http.StatusOK, Message: "Received empty result"}
	case AnswerEmptySpeech:
		c.logger.Info("received empty speech", "room_id", msg.RoomID)
		return OutcomeEmptySpeech, Ack{Code: http.StatusOK, Message: "Received empty speech"}
	}

	// The ack is written before delivery completes; a failed dispatch is
	// logged by the dispatcher and the message is lost from the bot's
	// perspective. No retry queue exists.
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		sendCtx, cancel := context.WithTimeout(context.Background(), c.replyTimeout)
		defer cancel()
		_ = c.dispatcher.Send(sendCtx, msg.RoomID, answer.Text, answer.Files)
	}()
	return OutcomeReplied, Ack{Code: http.StatusOK, Message: "Reply sent"}
}

// Drain blocks until in-flight reply dispatches finish. Called on shutdown
// and by tests.
func (c *Controller) Drain() {
	c.inflight.Wait()
}
