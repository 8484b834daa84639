package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"todos/internal/codec"
	"todos/internal/domain"
	"todos/internal/repository"
	"todos/internal/service"
)

// maxBodyBytes bounds request bodies; a task is at most 100 characters
const maxBodyBytes = 1 << 20

// TodoHandler handles the todos API
type TodoHandler struct {
	svc *service.TodoService
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Register adds the todo routes to mux
func (h *TodoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("POST /todos", h.CreateTodo)
	mux.HandleFunc("GET /todos", h.ListTodos)
	mux.HandleFunc("GET /todos/export", h.ExportTodos)
	mux.HandleFunc("POST /todos/import", h.ImportTodos)
	mux.HandleFunc("GET /todos/{id}", h.FindTodo)
	mux.HandleFunc("PATCH /todos/{id}", h.UpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", h.DeleteTodo)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Root answers the liveness greeting
func (h *TodoHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello, World!"))
}

// CreateTodo creates a new task
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateTask
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, "create todo", err)
		return
	}

	writeJSON(w, task, http.StatusCreated)
}

// ListTodos returns all tasks
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list todos", err)
		return
	}

	writeJSON(w, tasks, http.StatusOK)
}

// FindTodo returns a single task
func (h *TodoHandler) FindTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	task, err := h.svc.Find(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "find todo", err)
		return
	}

	writeJSON(w, task, http.StatusOK)
}

// UpdateTodo applies a partial update
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var input domain.UpdateTask
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, r, "update todo", err)
		return
	}

	writeJSON(w, task, http.StatusOK)
}

// DeleteTodo deletes a task
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete todo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportTodos writes every task as a JSON or YAML download
func (h *TodoHandler) ExportTodos(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	c, err := codec.ForFormat(format)
	if err != nil {
		writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	tasks, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "export todos", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=todos.%s", c.Format()))
	if err := c.Export(tasks, w); err != nil {
		log.Printf("Failed to export todos: %v", err)
		// Can't write error response as we already started the body
	}
}

// ImportTodos creates tasks from a JSON or YAML document
func (h *TodoHandler) ImportTodos(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = codec.FormatFromContentType(r.Header.Get("Content-Type"))
	}
	if _, err := codec.ForFormat(format); err != nil {
		writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	result, err := h.svc.ImportFrom(r.Context(), format, r.Body)
	if err != nil {
		var ierr *service.ImportError
		if errors.As(err, &ierr) {
			writeError(w, "Validation failed", ierr.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, repository.ErrUnexpected) {
			h.writeServiceError(w, r, "import todos", err)
			return
		}
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, result, http.StatusCreated)
}

// writeServiceError maps service and repository errors onto status codes.
// Storage details are logged, not returned.
func (h *TodoHandler) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, "Validation failed", verr.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		log.Printf("rid=%s %s cancelled", RequestIDFromContext(r.Context()), action)
	default:
		log.Printf("rid=%s Failed to %s: %v", RequestIDFromContext(r.Context()), action, err)
		writeError(w, "Internal server error", "failed to "+action, http.StatusInternalServerError)
	}
}

// Helper methods

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, "Invalid todo ID", fmt.Sprintf("%q is not an integer id", raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: multiple JSON values")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{
		Error:   error,
		Details: details,
	}, statusCode)
}
