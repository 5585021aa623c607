// Package api - API types for the pricing endpoints.
// Request settings are optional; the server's configured settings apply
// when a request omits them.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"jewel-pricing/core/pricing"
)

// TaskRequest is the input to POST /price/task
type TaskRequest struct {
	Task     *pricing.Task          `json:"task"`
	Settings *pricing.AdminSettings `json:"settings,omitempty"`

	// Lookup lists for processId/materialId references. When both are
	// omitted the server catalog, if any, is used.
	AvailableProcesses []pricing.Process  `json:"availableProcesses,omitempty"`
	AvailableMaterials []pricing.Material `json:"availableMaterials,omitempty"`
}

// ProcessRequest is the input to POST /price/process
type ProcessRequest struct {
	Process  *pricing.Process       `json:"process"`
	Settings *pricing.AdminSettings `json:"settings,omitempty"`
}

// MaterialRequest is the input to POST /price/material
type MaterialRequest struct {
	Material *pricing.Material      `json:"material"`
	Quantity *float64               `json:"quantity,omitempty"`
	Settings *pricing.AdminSettings `json:"settings,omitempty"`
}

// RetailRequest is the input to POST /price/retail
type RetailRequest struct {
	BaseCost *float64               `json:"baseCost"`
	Settings *pricing.AdminSettings `json:"settings,omitempty"`
}

// RetailResponse is the output of POST /price/retail
type RetailResponse struct {
	BaseCost           decimal.Decimal `json:"baseCost"`
	BusinessMultiplier decimal.Decimal `json:"businessMultiplier"`
	RetailPrice        decimal.Decimal `json:"retailPrice"`
}

// WholesaleRequest is the input to POST /price/wholesale
type WholesaleRequest struct {
	RetailPrice *float64               `json:"retailPrice"`
	BaseCost    *float64               `json:"baseCost"`
	Settings    *pricing.AdminSettings `json:"settings,omitempty"`
}

// WholesaleResponse is the output of POST /price/wholesale
type WholesaleResponse struct {
	WholesalePrice decimal.Decimal       `json:"wholesalePrice"`
	WholesaleType  pricing.WholesaleType `json:"wholesaleType"`
}

// RateResponse is the output of GET /rates/{skill}
type RateResponse struct {
	SkillLevel pricing.SkillLevel `json:"skillLevel"`
	HourlyRate decimal.Decimal    `json:"hourlyRate"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Catalog bool      `json:"catalog"`
	Time    time.Time `json:"time"`
}

// VersionResponse is the output of GET /version
type VersionResponse struct {
	Version        string   `json:"version"`
	Engine         string   `json:"engine"`
	APIVersion     string   `json:"api_version"`
	SkillLevels    []string `json:"skill_levels"`
	WholesaleTypes []string `json:"wholesale_types"`
}

// ErrorResponse wraps every non-2xx body
type ErrorResponse struct {
	RequestID string      `json:"request_id,omitempty"`
	Error     ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
