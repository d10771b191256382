package bot

import (
	"encoding/json"
	"net/http"

	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

// Handler adapts the controller to the webhook HTTP surface. The wire ack
// is always `{"status":{"code":...,"message":"..."}}` with HTTP 200.
type Handler struct {
	controller *Controller
	logger     *logging.Logger
	verbose    bool
}

// NewHandler creates the webhook HTTP adapter. verbose enables raw payload
// logging in development mode.
func NewHandler(controller *Controller, logger *logging.Logger, verbose bool) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{controller: controller, logger: logger, verbose: verbose}
}

type ackBody struct {
	Status ackStatus `json:"status"`
}

type ackStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Webhook handles the platform's webhook POST.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var evt InboundEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		h.logger.Warn("undecodable webhook body", "error", err)
		h.writeAck(w, Ack{Code: http.StatusOK, Message: "Ignored"})
		return
	}
	if h.verbose {
		h.logger.Debug("webhook event",
			"resource", evt.Resource,
			"event_id", evt.ID,
			"message_id", evt.Data.ID,
			"room_id", evt.Data.RoomID,
			"sender", evt.Data.PersonEmail,
		)
	}
	_, ack := h.controller.HandleEvent(r.Context(), evt)
	h.writeAck(w, ack)
}

// HealthCheck returns a simple health check response.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *Handler) writeAck(w http.ResponseWriter, ack Ack) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	body := ackBody{Status: ackStatus{Code: ack.Code, Message: ack.Message}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write ack", "error", err)
	}
}
