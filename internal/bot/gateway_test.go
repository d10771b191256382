package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/chatops-lab/sparkrelay/internal/nlu"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

func TestGatewayAskBuildsRoomContext(t *testing.T) {
	client := &stubNluClient{resp: nluReply("hello there")}
	gw := NewGateway(client, logging.Default(), nil)

	answer, err := gw.Ask(context.Background(), "what's up", "sess-1", "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Kind != AnswerReply || answer.Text != "hello there" {
		t.Fatalf("unexpected answer %+v", answer)
	}

	req := client.lastReq
	if req.Query != "what's up" || req.SessionID != "sess-1" {
		t.Fatalf("unexpected query request %+v", req)
	}
	if len(req.Contexts) != 1 || req.Contexts[0].Name != "spark" {
		t.Fatalf("expected a single spark context, got %+v", req.Contexts)
	}
	if req.Contexts[0].Parameters["roomId"] != "R1" {
		t.Fatalf("expected roomId parameter, got %+v", req.Contexts[0].Parameters)
	}
}

func TestGatewayAskFirstImageWins(t *testing.T) {
	client := &stubNluClient{resp: nluReply("see this",
		nlu.MessagePart{Kind: nlu.PartText, Speech: "see this"},
		nlu.MessagePart{Kind: nlu.PartImage, ImageURL: "https://cdn.example.com/a.png"},
		nlu.MessagePart{Kind: nlu.PartImage, ImageURL: "https://cdn.example.com/b.png"},
	)}
	gw := NewGateway(client, logging.Default(), nil)

	answer, err := gw.Ask(context.Background(), "show me", "sess-1", "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answer.Files) != 1 || answer.Files[0] != "https://cdn.example.com/a.png" {
		t.Fatalf("expected first image attachment only, got %v", answer.Files)
	}
}

func TestGatewayAskSkipsImagePartsWithoutURL(t *testing.T) {
	client := &stubNluClient{resp: nluReply("ok",
		nlu.MessagePart{Kind: nlu.PartImage},
		nlu.MessagePart{Kind: nlu.PartImage, ImageURL: "https://cdn.example.com/real.png"},
	)}
	gw := NewGateway(client, logging.Default(), nil)

	answer, err := gw.Ask(context.Background(), "show me", "sess-1", "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answer.Files) != 1 || answer.Files[0] != "https://cdn.example.com/real.png" {
		t.Fatalf("expected the first populated image, got %v", answer.Files)
	}
}

func TestGatewayAskEmptySpeech(t *testing.T) {
	client := &stubNluClient{resp: nluReply("")}
	gw := NewGateway(client, logging.Default(), nil)

	answer, err := gw.Ask(context.Background(), "hi", "sess-1", "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Kind != AnswerEmptySpeech {
		t.Fatalf("expected empty speech answer, got %+v", answer)
	}
}

func TestGatewayAskEmptyResult(t *testing.T) {
	client := &stubNluClient{resp: &nlu.QueryResponse{}}
	gw := NewGateway(client, logging.Default(), nil)

	answer, err := gw.Ask(context.Background(), "hi", "sess-1", "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Kind != AnswerEmptyResult {
		t.Fatalf("expected empty result answer, got %+v", answer)
	}
}

func TestGatewayAskQueryError(t *testing.T) {
	client := &stubNluClient{err: errors.New("connection refused")}
	gw := NewGateway(client, logging.Default(), nil)

	if _, err := gw.Ask(context.Background(), "hi", "sess-1", "R1"); err == nil {
		t.Fatalf("expected query error to propagate")
	}
}
