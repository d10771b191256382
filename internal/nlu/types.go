package nlu

import "encoding/json"

// QueryRequest is one conversational turn.
type QueryRequest struct {
	Query     string
	SessionID string
	Contexts  []Context
}

// Context is a named NLU context with auxiliary parameters.
type Context struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// PartKind identifies a fulfillment message part. The wire protocol uses a
// numeric tag; it is decoded into this enum at the boundary so callers never
// compare raw numbers.
type PartKind int

const (
	PartText PartKind = iota
	PartCard
	PartQuickReplies
	PartImage
	PartCustom
	PartUnknown
)

// MessagePart is one entry of the fulfillment message list.
type MessagePart struct {
	Kind     PartKind
	Speech   string
	ImageURL string
}

// Fulfillment carries the answer text and its structured parts.
type Fulfillment struct {
	Speech string
	Parts  []MessagePart
}

// Result is the intent-matching outcome. Absent in malformed backend
// answers, hence modelled behind a pointer on QueryResponse.
type Result struct {
	Fulfillment Fulfillment
}

// QueryResponse is the decoded backend answer.
type QueryResponse struct {
	Result *Result
}

type wireResponse struct {
	Result *struct {
		Fulfillment struct {
			Speech   string        `json:"speech"`
			Messages []wireMessage `json:"messages"`
		} `json:"fulfillment"`
	} `json:"result"`
}

type wireMessage struct {
	Type     json.Number `json:"type"`
	Speech   string      `json:"speech"`
	ImageURL string      `json:"imageUrl"`
}

func decodeQueryResponse(data []byte) (*QueryResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if wire.Result == nil {
		return &QueryResponse{}, nil
	}
	res := Result{
		Fulfillment: Fulfillment{
			Speech: wire.Result.Fulfillment.Speech,
		},
	}
	for _, msg := range wire.Result.Fulfillment.Messages {
		res.Fulfillment.Parts = append(res.Fulfillment.Parts, MessagePart{
			Kind:     partKind(msg.Type),
			Speech:   msg.Speech,
			ImageURL: msg.ImageURL,
		})
	}
	return &QueryResponse{Result: &res}, nil
}

func partKind(tag json.Number) PartKind {
	n, err := tag.Int64()
	if err != nil {
		return PartUnknown
	}
	switch n {
	case 0:
		return PartText
	case 1:
		return PartCard
	case 2:
		return PartQuickReplies
	case 3:
		return PartImage
	case 4:
		return PartCustom
	default:
		return PartUnknown
	}
}
