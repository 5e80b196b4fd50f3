package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/Houeta/employee-api/internal/services/employees"
	"github.com/gorilla/mux"
)

// EmployeeHandler exposes the employee service over HTTP.
type EmployeeHandler struct {
	log     *slog.Logger
	service employees.Service
}

func NewEmployeeHandler(log *slog.Logger, service employees.Service) *EmployeeHandler {
	return &EmployeeHandler{
		log:     log.With(slog.String("division", "http")),
		service: service,
	}
}

// Register mounts the employee routes on router.
func (h *EmployeeHandler) Register(router *mux.Router) {
	router.HandleFunc("/employee", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/employee", h.List).Methods(http.MethodGet)
	router.HandleFunc("/employee/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/employee/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/employee/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

// Create handles POST /employee. Any id in the body is ignored.
func (h *EmployeeHandler) Create(writer http.ResponseWriter, req *http.Request) {
	var employee models.Employee
	if err := json.NewDecoder(req.Body).Decode(&employee); err != nil {
		writeError(h.log, writer, req, http.StatusBadRequest, "invalid request body")
		return
	}
	employee.ID = 0

	saved, err := h.service.SaveEmployee(req.Context(), employee)
	if err != nil {
		h.fail(writer, req, "Failed to create employee", err)
		return
	}

	writeJSON(h.log, writer, req, http.StatusCreated, saved)
}

// List handles GET /employee.
func (h *EmployeeHandler) List(writer http.ResponseWriter, req *http.Request) {
	list, err := h.service.GetAllEmployees(req.Context())
	if err != nil {
		h.fail(writer, req, "Failed to list employees", err)
		return
	}
	if list == nil {
		list = []models.Employee{}
	}

	writeJSON(h.log, writer, req, http.StatusOK, list)
}

// Get handles GET /employee/{id}.
func (h *EmployeeHandler) Get(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	employee, found, err := h.service.GetEmployeeByID(req.Context(), identifier)
	if err != nil {
		h.fail(writer, req, "Failed to get employee", err)
		return
	}
	if !found {
		writer.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(h.log, writer, req, http.StatusOK, employee)
}

// Update handles PUT /employee/{id}. Only firstName, lastName and email are taken from
// the body, the stored id is kept.
func (h *EmployeeHandler) Update(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	var details models.Employee
	if err := json.NewDecoder(req.Body).Decode(&details); err != nil {
		writeError(h.log, writer, req, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, found, err := h.service.GetEmployeeByID(req.Context(), identifier)
	if err != nil {
		h.fail(writer, req, "Failed to get employee", err)
		return
	}
	if !found {
		writer.WriteHeader(http.StatusNotFound)
		return
	}

	existing.FirstName = details.FirstName
	existing.LastName = details.LastName
	existing.Email = details.Email

	updated, err := h.service.UpdateEmployee(req.Context(), existing)
	if err != nil {
		h.fail(writer, req, "Failed to update employee", err)
		return
	}

	writeJSON(h.log, writer, req, http.StatusOK, updated)
}

// Delete handles DELETE /employee/{id}. Deleting a missing employee still succeeds.
func (h *EmployeeHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	if err := h.service.DeleteEmployeeByID(req.Context(), identifier); err != nil {
		h.fail(writer, req, "Failed to delete employee", err)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (h *EmployeeHandler) pathID(writer http.ResponseWriter, req *http.Request) (int64, bool) {
	identifier, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		writeError(h.log, writer, req, http.StatusBadRequest, "invalid employee id")
		return 0, false
	}

	return identifier, true
}

// fail maps service errors to HTTP statuses.
func (h *EmployeeHandler) fail(writer http.ResponseWriter, req *http.Request, msg string, err error) {
	var duplicate *models.DuplicateEmailError

	switch {
	case errors.As(err, &duplicate):
		writeError(h.log, writer, req, http.StatusConflict, duplicate.Error())
	case errors.Is(err, repository.ErrEmployeeNotFound):
		writer.WriteHeader(http.StatusNotFound)
	default:
		h.log.ErrorContext(req.Context(), msg,
			slog.String("request_id", RequestIDFromContext(req.Context())), sl.Err(err))
		writeError(h.log, writer, req, http.StatusInternalServerError, internalErrorMessage)
	}
}
