package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/person/application"
	"github.com/mateusmacedo/go-transit/internal/person/domain"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/httpapi"
)

type PersonHTTPHandler struct {
	service *application.Service
	codec   *codec.Polymorphic[domain.Person]
	logger  pkgApp.AppLogger
}

func NewPersonHTTPHandler(service *application.Service, logger pkgApp.AppLogger) *PersonHTTPHandler {
	return &PersonHTTPHandler{
		service: service,
		codec:   NewPersonInputCodec(logger),
		logger:  logger,
	}
}

func (h *PersonHTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	h.writePersons(ctx, w, http.StatusOK, h.service.GetAll(ctx)...)
}

func (h *PersonHTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	id, ok := h.personID(ctx, w, r)
	if !ok {
		return
	}
	person, found := h.service.GetByID(ctx, id)
	if !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("person %s not found", id))
		return
	}
	h.writePerson(ctx, w, http.StatusOK, person)
}

func (h *PersonHTTPHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	person, ok := h.decodePerson(ctx, w, r)
	if !ok {
		return
	}
	person.ID = uuid.Nil
	if !h.save(ctx, w, &person) {
		return
	}
	h.writePerson(ctx, w, http.StatusCreated, person)
}

// HandleReplace substitui integralmente a pessoa existente; o id vem da rota.
func (h *PersonHTTPHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	id, ok := h.personID(ctx, w, r)
	if !ok {
		return
	}
	if _, found := h.service.GetByID(ctx, id); !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("person %s not found", id))
		return
	}

	person, ok := h.decodePerson(ctx, w, r)
	if !ok {
		return
	}
	person.ID = id
	if !h.save(ctx, w, &person) {
		return
	}
	h.writePerson(ctx, w, http.StatusOK, person)
}

func (h *PersonHTTPHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	id, ok := h.personID(ctx, w, r)
	if !ok {
		return
	}
	if !h.service.Delete(ctx, id) {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("person %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PersonHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/persons", h.HandleList)
	router.Post("/persons", h.HandleCreate)
	router.Get("/persons/{personID}", h.HandleGet)
	router.Put("/persons/{personID}", h.HandleReplace)
	router.Delete("/persons/{personID}", h.HandleDelete)
}

func (h *PersonHTTPHandler) personID(ctx context.Context, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "personID"))
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *PersonHTTPHandler) decodePerson(ctx context.Context, w http.ResponseWriter, r *http.Request) (domain.Person, bool) {
	raw, err := httpapi.DecodeBody(r)
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_request", err)
		return domain.Person{}, false
	}
	person, err := h.codec.DecodeElement(raw)
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_request", err)
		return domain.Person{}, false
	}
	return person, true
}

func (h *PersonHTTPHandler) save(ctx context.Context, w http.ResponseWriter, person *domain.Person) bool {
	if err := h.service.Save(ctx, person); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidPerson) {
			status = http.StatusUnprocessableEntity
		}
		httpapi.WriteError(ctx, w, h.logger, status, "invalid_person", err)
		return false
	}
	return true
}

func (h *PersonHTTPHandler) writePerson(ctx context.Context, w http.ResponseWriter, status int, person domain.Person) {
	body, err := h.codec.EncodeElement(person)
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusInternalServerError, "encoding_failed", err)
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, status, body)
}

func (h *PersonHTTPHandler) writePersons(ctx context.Context, w http.ResponseWriter, status int, persons ...domain.Person) {
	body := make([]interface{}, 0, len(persons))
	for _, person := range persons {
		element, err := h.codec.EncodeElement(person)
		if err != nil {
			httpapi.WriteError(ctx, w, h.logger, http.StatusInternalServerError, "encoding_failed", err)
			return
		}
		body = append(body, element)
	}
	httpapi.WriteJSON(ctx, w, h.logger, status, body)
}
