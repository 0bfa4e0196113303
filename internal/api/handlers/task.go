package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/calebw/tasklist-api/internal/api/middleware"
	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/calebw/tasklist-api/internal/service"
	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Completed   *bool   `json:"completed"`
}

type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Completed   bool    `json:"completed"`
}

type TaskListResponse struct {
	RowsReturned int            `json:"rows_returned"`
	Tasks        []TaskResponse `json:"tasks"`
}

type TaskPageResponse struct {
	RowsReturned    int            `json:"rows_returned"`
	TotalRows       int64          `json:"total_rows"`
	TotalPages      int            `json:"total_pages"`
	HasNextPage     bool           `json:"has_next_page"`
	HasPreviousPage bool           `json:"has_previous_page"`
	Tasks           []TaskResponse `json:"tasks"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	var messages []string
	if req.Title == nil {
		messages = append(messages, "Title field is mandatory and must be provided")
	} else if len(*req.Title) < 1 || len(*req.Title) > 255 {
		messages = append(messages, "Title must be between 1 and 255 characters")
	}
	if req.Completed == nil {
		messages = append(messages, "Completed field is mandatory and must be provided")
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		messages = append(messages, err.Error())
	}
	if len(messages) > 0 {
		respondError(w, http.StatusBadRequest, messages...)
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, service.CreateTaskInput{
		Title:       *req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Completed:   *req.Completed,
	})
	if err != nil {
		respondDomainError(w, err, "There was an issue creating a task - please try again")
		return
	}

	respondSuccess(w, http.StatusCreated, taskList(task), "Task created")
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		respondDomainError(w, err, "There was an issue retrieving a task")
		return
	}

	respondCached(w, http.StatusOK, taskList(task), "Task retrieved")
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		tasks []*domain.Task
		err   error
	)
	if filter := r.URL.Query().Get("completed"); filter != "" {
		completed, parseErr := strconv.ParseBool(filter)
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "Completed filter must be true or false")
			return
		}
		tasks, err = h.taskService.ListByCompleted(r.Context(), userID, completed)
	} else {
		tasks, err = h.taskService.List(r.Context(), userID)
	}
	if err != nil {
		respondDomainError(w, err, "There was an issue retrieving tasks")
		return
	}

	respondCached(w, http.StatusOK, taskList(tasks...))
}

func (h *TaskHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 {
		respondError(w, http.StatusBadRequest, "Page number must be numeric")
		return
	}

	result, err := h.taskService.ListPage(r.Context(), userID, page)
	if err != nil {
		respondDomainError(w, err, "There was an issue retrieving tasks")
		return
	}

	resp := TaskPageResponse{
		RowsReturned:    len(result.Tasks),
		TotalRows:       result.TotalRows,
		TotalPages:      result.TotalPages,
		HasNextPage:     result.HasNextPage,
		HasPreviousPage: result.HasPreviousPage,
		Tasks:           taskList(result.Tasks...).Tasks,
	}
	respondCached(w, http.StatusOK, resp)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	if req.Title == nil && req.Description == nil && req.Deadline == nil && req.Completed == nil {
		respondError(w, http.StatusBadRequest, "No task fields provided")
		return
	}
	if req.Title != nil && (len(*req.Title) < 1 || len(*req.Title) > 255) {
		respondError(w, http.StatusBadRequest, "Title must be between 1 and 255 characters")
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Completed:   req.Completed,
	})
	if err != nil {
		respondDomainError(w, err, "There was an issue updating a task - please try again")
		return
	}

	respondSuccess(w, http.StatusOK, taskList(task), "Task updated")
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		respondDomainError(w, err, "There was an issue deleting a task")
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Task deleted")
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Task ID cannot be blank or must be numeric")
		return 0, false
	}
	return id, true
}

func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(domain.DeadlineFormat, *raw)
	if err != nil {
		return nil, domain.NewValidationError("Deadline must use the format dd/mm/yyyy hh:mm")
	}
	return &t, nil
}

func taskList(tasks ...*domain.Task) TaskListResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		var deadline *string
		if t.Deadline != nil {
			formatted := t.Deadline.Format(domain.DeadlineFormat)
			deadline = &formatted
		}
		out = append(out, TaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Deadline:    deadline,
			Completed:   t.Completed,
		})
	}
	return TaskListResponse{RowsReturned: len(out), Tasks: out}
}
