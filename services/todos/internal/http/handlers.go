package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/models"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/repository"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/service"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/validation"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/shared/middleware"
)

type TodoHandler struct {
	todoService *service.TodoService
	validator   *validation.Validator
	logger      *logrus.Logger
}

func NewTodoHandler(ts *service.TodoService, v *validation.Validator, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: ts,
		validator:   v,
		logger:      logger,
	}
}

// Register привязывает маршруты к mux
func (h *TodoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /todos", h.ListTodos)
	mux.HandleFunc("POST /todos", h.CreateTodo)
	mux.HandleFunc("GET /todos/completed", h.ListCompletedTodos)
	mux.HandleFunc("GET /todos/pending", h.ListPendingTodos)
	mux.HandleFunc("GET /todos/search", h.SearchTodos)
	mux.HandleFunc("GET /todos/{id}", h.GetTodo)
	mux.HandleFunc("PUT /todos/{id}", h.UpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", h.DeleteTodo)
	mux.HandleFunc("GET /healthz", h.Health)
}

type createTodoRequest struct {
	Title string `json:"title"`
}

// Указатели отличают "поле не передано" от явного false/""
type updateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type todoResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toTodoResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
	}
}

func toTodoResponses(todos []*models.Todo) []todoResponse {
	result := make([]todoResponse, len(todos))
	for i, t := range todos {
		result[i] = toTodoResponse(t)
	}
	return result
}

func (h *TodoHandler) entry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

func (h *TodoHandler) writeJSON(w http.ResponseWriter, logEntry *logrus.Entry, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logEntry.WithError(err).Warn("failed to write response")
	}
}

func (h *TodoHandler) writeError(w http.ResponseWriter, logEntry *logrus.Entry, status int, message string) {
	h.writeJSON(w, logEntry, status, errorResponse{Error: message})
}

// writeServiceError переводит ошибки сервиса в HTTP статусы
func (h *TodoHandler) writeServiceError(w http.ResponseWriter, logEntry *logrus.Entry, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrTodoNotFound):
		logEntry.Warn("todo not found")
		h.writeError(w, logEntry, http.StatusNotFound, "todo not found")
	case errors.Is(err, service.ErrTitleRequired):
		logEntry.Warn("title is required")
		h.writeError(w, logEntry, http.StatusBadRequest, "title is required")
	default:
		logEntry.WithError(err).Error("failed to " + action)
		h.writeError(w, logEntry, http.StatusInternalServerError, "internal server error")
	}
}

// CreateTodo обрабатывает POST /todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "CreateTodo")

	var req createTodoRequest
	if err := h.validator.DecodeCreate(r.Body, &req); err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		h.writeError(w, logEntry, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.todoService.Create(r.Context(), req.Title)
	if err != nil {
		h.writeServiceError(w, logEntry, err, "create todo")
		return
	}

	logEntry.WithField("todo_id", todo.ID).Info("todo created successfully")
	h.writeJSON(w, logEntry, http.StatusCreated, toTodoResponse(todo))
}

// ListTodos обрабатывает GET /todos, поддерживает ?completed= и ?title=
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ListTodos")

	filter := models.ListFilter{TitleContains: r.URL.Query().Get("title")}
	if v := r.URL.Query().Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			logEntry.WithField("completed", v).Warn("invalid completed filter")
			h.writeError(w, logEntry, http.StatusBadRequest, "query parameter 'completed' must be a boolean")
			return
		}
		filter.Completed = &completed
	}

	h.list(w, r, logEntry, filter)
}

// ListCompletedTodos обрабатывает GET /todos/completed
func (h *TodoHandler) ListCompletedTodos(w http.ResponseWriter, r *http.Request) {
	completed := true
	h.list(w, r, h.entry(r, "ListCompletedTodos"), models.ListFilter{Completed: &completed})
}

// ListPendingTodos обрабатывает GET /todos/pending
func (h *TodoHandler) ListPendingTodos(w http.ResponseWriter, r *http.Request) {
	completed := false
	h.list(w, r, h.entry(r, "ListPendingTodos"), models.ListFilter{Completed: &completed})
}

// SearchTodos обрабатывает GET /todos/search?title=
func (h *TodoHandler) SearchTodos(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "SearchTodos")

	title := r.URL.Query().Get("title")
	if title == "" {
		h.writeError(w, logEntry, http.StatusBadRequest, "search query parameter 'title' is required")
		return
	}

	logEntry.WithField("title", title).Debug("searching todos")
	todos, err := h.todoService.Search(r.Context(), title)
	if err != nil {
		h.writeServiceError(w, logEntry, err, "search todos")
		return
	}
	h.writeJSON(w, logEntry, http.StatusOK, toTodoResponses(todos))
}

func (h *TodoHandler) list(w http.ResponseWriter, r *http.Request, logEntry *logrus.Entry, filter models.ListFilter) {
	todos, err := h.todoService.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, logEntry, err, "list todos")
		return
	}

	logEntry.WithField("count", len(todos)).Debug("todos listed")
	h.writeJSON(w, logEntry, http.StatusOK, toTodoResponses(todos))
}

// GetTodo обрабатывает GET /todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logEntry := h.entry(r, "GetTodo").WithField("todo_id", id)

	todo, err := h.todoService.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, logEntry, err, "get todo")
		return
	}

	logEntry.Debug("todo retrieved")
	h.writeJSON(w, logEntry, http.StatusOK, toTodoResponse(todo))
}

// UpdateTodo обрабатывает PUT /todos/{id}; меняются только переданные поля
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logEntry := h.entry(r, "UpdateTodo").WithField("todo_id", id)

	var req updateTodoRequest
	if err := h.validator.DecodeUpdate(r.Body, &req); err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		h.writeError(w, logEntry, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.todoService.Update(r.Context(), id, models.TodoPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		h.writeServiceError(w, logEntry, err, "update todo")
		return
	}

	logEntry.Info("todo updated successfully")
	h.writeJSON(w, logEntry, http.StatusOK, toTodoResponse(todo))
}

// DeleteTodo обрабатывает DELETE /todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logEntry := h.entry(r, "DeleteTodo").WithField("todo_id", id)

	if err := h.todoService.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, logEntry, err, "delete todo")
		return
	}

	logEntry.Info("todo deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// Health обрабатывает GET /healthz
func (h *TodoHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.entry(r, "Health"), http.StatusOK, map[string]string{"status": "ok"})
}
