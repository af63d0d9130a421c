package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/smarttasker/taskmaster-api/internal/intent"
	"github.com/smarttasker/taskmaster-api/internal/repo"
	"github.com/smarttasker/taskmaster-api/internal/service"
	"github.com/smarttasker/taskmaster-api/pkg/respond"
)

type AssistantHandler struct {
	service *service.Assistant
	logger  *zap.Logger
}

func NewAssistantHandler(srv *service.Assistant, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: srv,
		logger:  logger,
	}
}

type aiRequest struct {
	Prompt string `json:"prompt"`
	Email  string `json:"email"`
}

// Process — единственная входная операция: текст запроса и email владельца
func (h *AssistantHandler) Process(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	result, err := h.service.Process(r.Context(), req.Prompt, req.Email)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	code := http.StatusOK
	if result.Action == intent.ActionCreate {
		code = http.StatusCreated
	}
	respond.JSON(w, r, code, result)
}

// Users отдает список пользователей с количеством задач
func (h *AssistantHandler) Users(w http.ResponseWriter, r *http.Request) {
	owners, err := h.service.Owners(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]interface{}{"users": owners})
}

func (h *AssistantHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "prompt and email are required")
	case errors.Is(err, service.ErrMissingField):
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("%v; please rephrase your request", err))
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrAIUnavailable):
		respond.Error(w, r, http.StatusServiceUnavailable, "ai processing unavailable")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
