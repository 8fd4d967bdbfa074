package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
	"github.com/mateusmacedo/go-transit/internal/title/application"
	"github.com/mateusmacedo/go-transit/internal/title/domain"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/httpapi"
)

type PurchaseRequest struct {
	PersonID string `json:"personId"`
	Payment  string `json:"payment"`
}

type titleView struct {
	Title interface{}  `json:"title"`
	State domain.State `json:"state"`
}

type TitleHTTPHandler struct {
	service *application.Service
	persons domain.PersonLookup
	codec   *codec.Polymorphic[domain.Title]
	logger  pkgApp.AppLogger
}

func NewTitleHTTPHandler(service *application.Service, persons domain.PersonLookup, logger pkgApp.AppLogger) *TitleHTTPHandler {
	return &TitleHTTPHandler{
		service: service,
		persons: persons,
		codec:   NewTitleCodec(persons, logger),
		logger:  logger,
	}
}

// HandleList aceita ?personId= para filtrar por dono.
func (h *TitleHTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	titles := h.service.GetAll(ctx)
	if raw := r.URL.Query().Get("personId"); raw != "" {
		personID, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
			return
		}
		titles = h.service.GetForPerson(ctx, personID)
	}

	views := make([]titleView, 0, len(titles))
	for _, title := range titles {
		view, err := h.view(title)
		if err != nil {
			httpapi.WriteError(ctx, w, h.logger, http.StatusInternalServerError, "encoding_failed", err)
			return
		}
		views = append(views, view)
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusOK, views)
}

func (h *TitleHTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	title, ok := h.storedTitle(ctx, w, r)
	if !ok {
		return
	}
	h.writeTitle(ctx, w, http.StatusOK, title)
}

func (h *TitleHTTPHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	h.handlePurchase(w, r, h.service.CreateTicket)
}

func (h *TitleHTTPHandler) HandleCreateCard(w http.ResponseWriter, r *http.Request) {
	h.handlePurchase(w, r, h.service.CreateCard)
}

func (h *TitleHTTPHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	person, ok := h.lookupPerson(ctx, w, r.URL.Query().Get("personId"))
	if !ok {
		return
	}
	discount, err := h.service.Quote(ctx, person)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, http.StatusOK, discount)
}

func (h *TitleHTTPHandler) HandleUse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	title, ok := h.storedTitle(ctx, w, r)
	if !ok {
		return
	}
	if !h.service.UseTicket(ctx, title) {
		httpapi.WriteError(ctx, w, h.logger, http.StatusConflict, "ticket_not_usable",
			fmt.Errorf("title %d cannot be used", title.SequenceID))
		return
	}

	used, _ := h.service.GetByID(ctx, title.SequenceID)
	h.writeTitle(ctx, w, http.StatusOK, used)
}

func (h *TitleHTTPHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	sequenceID, ok := h.sequenceID(ctx, w, r)
	if !ok {
		return
	}
	if !h.service.Delete(ctx, sequenceID) {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("title %d not found", sequenceID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TitleHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/titles", h.HandleList)
	router.Get("/titles/quote", h.HandleQuote)
	router.Post("/titles/tickets", h.HandleCreateTicket)
	router.Post("/titles/cards", h.HandleCreateCard)
	router.Get("/titles/{titleID}", h.HandleGet)
	router.Post("/titles/{titleID}/use", h.HandleUse)
	router.Delete("/titles/{titleID}", h.HandleDelete)
}

type purchaseFunc func(ctx context.Context, person personDomain.Person, payment domain.PaymentMode) (domain.Title, error)

func (h *TitleHTTPHandler) handlePurchase(w http.ResponseWriter, r *http.Request, purchase purchaseFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), httpapi.RequestTimeout)
	defer cancel()

	var req PurchaseRequest
	raw, err := httpapi.DecodeBody(r)
	if err == nil {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_request", err)
		return
	}

	person, ok := h.lookupPerson(ctx, w, req.PersonID)
	if !ok {
		return
	}
	title, err := purchase(ctx, person, domain.PaymentMode(req.Payment))
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	h.writeTitle(ctx, w, http.StatusCreated, title)
}

func (h *TitleHTTPHandler) lookupPerson(ctx context.Context, w http.ResponseWriter, raw string) (personDomain.Person, bool) {
	personID, err := uuid.Parse(raw)
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
		return personDomain.Person{}, false
	}
	person, found := h.persons.GetByID(ctx, personID)
	if !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found",
			fmt.Errorf("%w: %s", domain.ErrPersonNotFound, personID))
		return personDomain.Person{}, false
	}
	return person, true
}

func (h *TitleHTTPHandler) sequenceID(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	sequenceID, err := strconv.Atoi(chi.URLParam(r, "titleID"))
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_id", err)
		return 0, false
	}
	return sequenceID, true
}

func (h *TitleHTTPHandler) storedTitle(ctx context.Context, w http.ResponseWriter, r *http.Request) (domain.Title, bool) {
	sequenceID, ok := h.sequenceID(ctx, w, r)
	if !ok {
		return domain.Title{}, false
	}
	title, found := h.service.GetByID(ctx, sequenceID)
	if !found {
		httpapi.WriteError(ctx, w, h.logger, http.StatusNotFound, "not_found", fmt.Errorf("title %d not found", sequenceID))
		return domain.Title{}, false
	}
	return title, true
}

func (h *TitleHTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoApplicableDiscount):
		httpapi.WriteError(ctx, w, h.logger, http.StatusUnprocessableEntity, "no_applicable_discount", err)
	case errors.Is(err, domain.ErrInvalidPayment):
		httpapi.WriteError(ctx, w, h.logger, http.StatusBadRequest, "invalid_payment", err)
	case errors.Is(err, domain.ErrInvalidTitle):
		httpapi.WriteError(ctx, w, h.logger, http.StatusUnprocessableEntity, "invalid_title", err)
	default:
		httpapi.WriteError(ctx, w, h.logger, http.StatusInternalServerError, "internal_error", err)
	}
}

func (h *TitleHTTPHandler) view(title domain.Title) (titleView, error) {
	element, err := h.codec.EncodeElement(title)
	if err != nil {
		return titleView{}, err
	}
	return titleView{Title: element, State: h.service.State(title)}, nil
}

func (h *TitleHTTPHandler) writeTitle(ctx context.Context, w http.ResponseWriter, status int, title domain.Title) {
	view, err := h.view(title)
	if err != nil {
		httpapi.WriteError(ctx, w, h.logger, http.StatusInternalServerError, "encoding_failed", err)
		return
	}
	httpapi.WriteJSON(ctx, w, h.logger, status, view)
}
