package spark

import "errors"

// Person is the bot's own profile from GET /people/me.
type Person struct {
	ID          string   `json:"id"`
	Emails      []string `json:"emails"`
	DisplayName string   `json:"displayName"`
}

// Webhook is a registered webhook subscription.
type Webhook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	TargetURL string `json:"targetUrl"`
}

// CreateWebhookRequest registers a webhook subscription.
type CreateWebhookRequest struct {
	Name      string `json:"name"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	TargetURL string `json:"targetUrl"`
}

func (r CreateWebhookRequest) validate() error {
	if r.Name == "" || r.Resource == "" || r.Event == "" || r.TargetURL == "" {
		return errors.New("sparkclient: webhook name, resource, event and target url required")
	}
	return nil
}

// Message is a room message, either fetched or just created.
type Message struct {
	ID          string   `json:"id"`
	RoomID      string   `json:"roomId"`
	PersonEmail string   `json:"personEmail"`
	Text        string   `json:"text"`
	Files       []string `json:"files,omitempty"`
}

// SendMessageRequest posts a reply into a room. Files carries attachment
// URLs passed through opaquely; the platform downloads them itself.
type SendMessageRequest struct {
	RoomID string   `json:"roomId"`
	Text   string   `json:"text"`
	Files  []string `json:"files,omitempty"`
}

func (r SendMessageRequest) validate() error {
	if r.RoomID == "" {
		return errors.New("sparkclient: room id required")
	}
	if r.Text == "" && len(r.Files) == 0 {
		return errors.New("sparkclient: message text or files required")
	}
	return nil
}
