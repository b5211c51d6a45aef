package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cart/assistant-service/internal/assistant"
	"go.uber.org/zap"
)

// Assistant answers a single chat message
type Assistant interface {
	Handle(ctx context.Context, utterance string) assistant.Reply
}

type ChatHandler struct {
	assistant   Assistant
	timeout     time.Duration
	maxBodySize int64
	logger      *zap.Logger
}

func NewChatHandler(a Assistant, timeout time.Duration, maxBodySize int64, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		assistant:   a,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

type ChatRequestDTO struct {
	Message *string `json:"message"`
}

type ChatResponse struct {
	Reply assistant.Reply `json:"reply"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Parse request body
	var req ChatRequestDTO
	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, h.logger, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return
		}
		respondErrorDetails(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body", err.Error())
		return
	}

	// Validate request
	if req.Message == nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_message", "message is required")
		return
	}

	reply := h.assistant.Handle(ctx, *req.Message)
	respondJSON(w, h.logger, http.StatusOK, ChatResponse{Reply: reply})
}
