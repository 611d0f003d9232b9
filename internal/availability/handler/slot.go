package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"meetsync/internal/availability/service"
	apperrors "meetsync/pkg/errors"
	httputil "meetsync/pkg/http"
	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

type SlotHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewSlotHandler(service service.AvailabilityService, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log,
	}
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability-slots", h.Create)
	router.GET("/api/v1/availability-slots", h.GetByOwner)
	router.DELETE("/api/v1/availability-slots/:id", h.Delete)
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot model.AvailabilitySlot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("Invalid request body: %v", err))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.AddSlot(r.Context(), &slot); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *SlotHandler) GetByOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	ownerID := query.Get("owner_id")
	if ownerID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("owner_id query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "error", writeErr)
		}
		return
	}

	var slots []*model.AvailabilitySlot
	var err error
	if dayStr := query.Get("weekday"); dayStr != "" {
		var day model.Weekday
		day, err = model.ParseWeekday(dayStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(err.Error())); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetByOwner", "error", writeErr)
			}
			return
		}
		slots, err = h.service.SlotsFor(r.Context(), ownerID, day)
	} else {
		slots, err = h.service.SlotsForOwner(r.Context(), ownerID)
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByOwner", "error", err)
	}
}

func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	if err := h.service.RemoveSlot(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}
