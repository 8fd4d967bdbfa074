package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/complaint/application"
	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/httpapi"
)

type FileComplaintRequest struct {
	PersonID    string `json:"personId"`
	Description string `json:"description"`
	Category    string `json:"type"`
}

type ProcessComplaintRequest struct {
	Status   string `json:"etat"`
	Response string `json:"reponse"`
}

type ComplaintHTTPHandler struct {
	service *application.Service
	persons domain.PersonLookup
	logger  pkgApp.AppLogger
}

func NewComplaintHTTPHandler(service *application.Service, persons domain.PersonLookup, logger pkgApp.AppLogger) *ComplaintHTTPHandler {
	return &ComplaintHTTPHandler{
		service: service,
		persons: persons,
		logger:  logger,
	}
}

func (h *ComplaintHTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	complaints := h.service.GetAll(ctx)
	if raw := r.URL.Query().Get("personId"); raw != "" {
		personID, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
			return
		}
		complaints = h.service.GetForPerson(ctx, personID)
	}

	body := make([]complaintData, 0, len(complaints))
	for _, c := range complaints {
		body = append(body, toComplaintData(c))
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusOK, body)
}

func (h *ComplaintHTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	complaint, ok := h.storedComplaint(ctx, w, r)
	if !ok {
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusOK, toComplaintData(complaint))
}

// HandleGetPerson devolve o autor; 404 quando a pessoa já foi apagada.
func (h *ComplaintHTTPHandler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	complaint, ok := h.storedComplaint(ctx, w, r)
	if !ok {
		return
	}
	person, found := h.service.GetPersonFor(ctx, complaint)
	if !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "person_not_found",
			fmt.Errorf("person %s not found", complaint.PersonID))
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusOK, person)
}

func (h *ComplaintHTTPHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	var req FileComplaintRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	personID, err := uuid.Parse(req.PersonID)
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
		return
	}
	person, found := h.persons.GetByID(ctx, personID)
	if !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "person_not_found", fmt.Errorf("person %s not found", personID))
		return
	}

	complaint, err := h.service.Create(ctx, person, req.Description, domain.Category(req.Category))
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusCreated, toComplaintData(complaint))
}

func (h *ComplaintHTTPHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	complaint, ok := h.storedComplaint(ctx, w, r)
	if !ok {
		return
	}
	var req ProcessComplaintRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	processed, err := h.service.Process(ctx, complaint, domain.Status(req.Status), req.Response)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusOK, toComplaintData(processed))
}

func (h *ComplaintHTTPHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	id, ok := h.complaintID(ctx, w, r)
	if !ok {
		return
	}
	if !h.service.Delete(ctx, id) {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", domain.ErrNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ComplaintHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/complaints", h.HandleList)
	router.Post("/complaints", h.HandleCreate)
	router.Get("/complaints/{complaintID}", h.HandleGet)
	router.Get("/complaints/{complaintID}/person", h.HandleGetPerson)
	router.Post("/complaints/{complaintID}/process", h.HandleProcess)
	router.Delete("/complaints/{complaintID}", h.HandleDelete)
}

func (h *ComplaintHTTPHandler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

func (h *ComplaintHTTPHandler) complaintID(ctx context.Context, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "complaintID"))
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ComplaintHTTPHandler) storedComplaint(ctx context.Context, w http.ResponseWriter, r *http.Request) (domain.Complaint, bool) {
	id, ok := h.complaintID(ctx, w, r)
	if !ok {
		return domain.Complaint{}, false
	}
	complaint, found := h.service.GetByID(ctx, id)
	if !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", domain.ErrNotFound, id))
		return domain.Complaint{}, false
	}
	return complaint, true
}

func (h *ComplaintHTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrResponseRequired):
		httpapi.WriteError(ctx, w, h.logger, http.StatusUnprocessableEntity, "response_required", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		httpapi.WriteError(ctx, w, h.logger, http.StatusUnprocessableEntity, "invalid_transition", err)
	case errors.Is(err, domain.ErrInvalidCategory):
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_category", err)
	case errors.Is(err, domain.ErrInvalidComplaint):
		httpapi.WriteError(ctx, w, h.logger, http.StatusUnprocessableEntity, "invalid_complaint", err)
	default:
		httpapi.WriteError(ctx, w, h.logger, http.StatusInternalServerError, "internal_error", err)
	}
}
