// Package api - HTTP handlers for pricing
// Handlers decode, delegate to the engine and encode. They contain NO pricing logic.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/errors"
)

const maxBodyBytes = 1 << 20

// Handler handles pricing requests
type Handler struct {
	engine   *pricing.Engine
	settings *pricing.AdminSettings
	catalog  CatalogSource
	logger   *zap.Logger
	version  string
}

// NewHandler creates a new handler
func NewHandler(version string, settings *pricing.AdminSettings, catalog CatalogSource, logger *zap.Logger) *Handler {
	return &Handler{
		engine:   pricing.NewEngine(pricing.WithLogger(logger.Named("engine"))),
		settings: settings,
		catalog:  catalog,
		logger:   logger,
		version:  version,
	}
}

func (h *Handler) settingsFor(requested *pricing.AdminSettings) *pricing.AdminSettings {
	if requested != nil {
		return requested
	}
	return h.settings
}

// handleTask handles POST /price/task
func (h *Handler) handleTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Task == nil {
		h.writeError(w, r, errors.TypeErrorf("task is required"))
		return
	}

	var catalog pricing.Catalog
	switch {
	case req.AvailableProcesses != nil || req.AvailableMaterials != nil:
		catalog = pricing.NewStaticCatalog(req.AvailableProcesses, req.AvailableMaterials)
	case h.catalog != nil && needsCatalog(req.Task):
		snap, err := h.catalog.Snapshot(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		catalog = snap
	}

	result, err := h.engine.TaskCost(req.Task, h.settingsFor(req.Settings), catalog)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

// handleProcess handles POST /price/process
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.engine.ProcessCost(req.Process, h.settingsFor(req.Settings))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

// handleMaterial handles POST /price/material
func (h *Handler) handleMaterial(w http.ResponseWriter, r *http.Request) {
	var req MaterialRequest
	if !h.decode(w, r, &req) {
		return
	}
	quantity := 1.0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	result, err := h.engine.MaterialCost(req.Material, quantity, h.settingsFor(req.Settings))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

// handleRetail handles POST /price/retail
func (h *Handler) handleRetail(w http.ResponseWriter, r *http.Request) {
	var req RetailRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BaseCost == nil {
		h.writeError(w, r, errors.TypeErrorf("baseCost is required"))
		return
	}
	settings := h.settingsFor(req.Settings)

	retail, err := h.engine.ApplyBusinessMultiplier(*req.BaseCost, settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	multiplier, err := h.engine.BusinessMultiplier(settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, RetailResponse{
		BaseCost:           decimal.NewFromFloat(*req.BaseCost),
		BusinessMultiplier: multiplier,
		RetailPrice:        retail,
	}, http.StatusOK)
}

// handleWholesale handles POST /price/wholesale
func (h *Handler) handleWholesale(w http.ResponseWriter, r *http.Request) {
	var req WholesaleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.RetailPrice == nil || req.BaseCost == nil {
		h.writeError(w, r, errors.TypeErrorf("retailPrice and baseCost are required"))
		return
	}
	settings := h.settingsFor(req.Settings)

	s, err := h.engine.Settings(settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	price, err := h.engine.WholesalePrice(*req.RetailPrice, *req.BaseCost, settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, WholesaleResponse{WholesalePrice: price, WholesaleType: s.Wholesale.Type}, http.StatusOK)
}

// handleRate handles GET /rates/{skill}
func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	skill := chi.URLParam(r, "skill")
	rate, err := h.engine.HourlyRateForSkill(skill, h.settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	level, _ := pricing.ParseSkillLevel(skill)
	writeJSON(w, RateResponse{SkillLevel: level, HourlyRate: rate}, http.StatusOK)
}

// handleSettings handles GET /settings
func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Settings(h.settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, s, http.StatusOK)
}

// handleHealth handles GET /health
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Catalog: h.catalog != nil,
		Time:    time.Now().UTC(),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	levels := make([]string, 0, 4)
	for _, l := range pricing.SkillLevels() {
		levels = append(levels, string(l))
	}
	writeJSON(w, VersionResponse{
		Version:        h.version,
		Engine:         "jewel-pricing",
		APIVersion:     "v1",
		SkillLevels:    levels,
		WholesaleTypes: pricing.WholesaleTypes(),
	}, http.StatusOK)
}

// decode reads a JSON body, writing the error response itself on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			h.writeError(w, r, errors.New(errors.TypeInput, "request body is empty"))
			return false
		}
		h.writeError(w, r, pricing.ClassifyJSONError(err))
		return false
	}
	if dec.More() {
		h.writeError(w, r, errors.New(errors.TypeInput, "unexpected data after JSON body"))
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{Code: string(errors.TypeInternal), Message: err.Error()}
	if e, ok := errors.As(err); ok {
		detail = ErrorDetail{Code: string(e.Type), Message: e.Message, Context: e.Context}
	}

	status := statusFor(errors.Type(detail.Code))
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err))
	}

	writeJSON(w, ErrorResponse{RequestID: RequestIDFrom(r.Context()), Error: detail}, status)
}

func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInvalidType, errors.TypeOutOfRange, errors.TypeInput:
		return http.StatusBadRequest
	case errors.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func needsCatalog(t *pricing.Task) bool {
	for _, s := range t.Processes {
		if kind, ok := s.Kind(); ok && kind == pricing.SelectionReference {
			return true
		}
	}
	for _, s := range t.Materials {
		if kind, ok := s.Kind(); ok && kind == pricing.SelectionReference {
			return true
		}
	}
	return false
}
