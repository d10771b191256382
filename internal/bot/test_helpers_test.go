package bot

import (
	"context"
	"sync"

	"github.com/chatops-lab/sparkrelay/internal/nlu"
	"github.com/chatops-lab/sparkrelay/internal/spark"
)

type stubNluClient struct {
	resp    *nlu.QueryResponse
	err     error
	lastReq nlu.QueryRequest
	calls   int
}

func (s *stubNluClient) Query(_ context.Context, req nlu.QueryRequest) (*nlu.QueryResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type sentReply struct {
	roomID string
	text   string
	files  []string
}

type stubReplySender struct {
	mu      sync.Mutex
	err     error
	replies []sentReply
}

func (s *stubReplySender) Send(_ context.Context, roomID, text string, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, sentReply{roomID: roomID, text: text, files: files})
	return s.err
}

func (s *stubReplySender) sent() []sentReply {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentReply, len(s.replies))
	copy(out, s.replies)
	return out
}

type stubFetcher struct {
	msg   *spark.Message
	err   error
	calls int
}

func (s *stubFetcher) GetMessage(_ context.Context, id string) (*spark.Message, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.msg != nil {
		return s.msg, nil
	}
	return &spark.Message{ID: id, RoomID: "R1", Text: "hi"}, nil
}

type stubTracker struct {
	seen map[string]bool
	err  error
}

func (s *stubTracker) MarkProcessed(_ context.Context, provider, eventID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	key := provider + ":" + eventID
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

type stubSparkSender struct {
	mu       sync.Mutex
	err      error
	requests []spark.SendMessageRequest
}

func (s *stubSparkSender) SendMessage(_ context.Context, req spark.SendMessageRequest) (*spark.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &spark.Message{ID: "msg-out", RoomID: req.RoomID, Text: req.Text}, nil
}

func nluReply(speech string, parts ...nlu.MessagePart) *nlu.QueryResponse {
	return &nlu.QueryResponse{Result: &nlu.Result{Fulfillment: nlu.Fulfillment{
		Speech: speech,
		Parts:  parts,
	}}}
}
