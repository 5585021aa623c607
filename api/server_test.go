package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/errors"
)

type stubCatalog struct {
	processes []pricing.Process
	materials []pricing.Material
	err       error
	calls     int
}

func (c *stubCatalog) Snapshot(ctx context.Context) (*pricing.StaticCatalog, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return pricing.NewStaticCatalog(c.processes, c.materials), nil
}

func newTestServer(opts Options) *httptest.Server {
	if opts.Version == "" {
		opts.Version = "test"
	}
	return httptest.NewServer(NewServer(opts))
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp, decoded
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestPriceTaskEmbedded(t *testing.T) {
	srv := newTestServer(Options{})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodPost, "/price/task", `{
		"task": {
			"processes": [{"process": {"laborHours": 2, "skillLevel": "standard",
				"materials": [{"estimatedCost": 10}, {"estimatedCost": 5}]}, "quantity": 2}],
			"materials": [{"material": {"estimatedCost": 10}, "quantity": 3}]
		}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	for field, want := range map[string]string{
		"totalLaborHours":  "4",
		"totalProcessCost": "260",
		"baseCost":         "320",
		"retailPrice":      "640",
		"wholesalePrice":   "480",
	} {
		if body[field] != want {
			t.Errorf("%s = %v, want %s", field, body[field], want)
		}
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestPriceTaskReferences(t *testing.T) {
	catalog := &stubCatalog{
		processes: []pricing.Process{{ID: "polish", LaborHours: 1}},
		materials: []pricing.Material{{ID: "wax", Cost: pricing.EstimatedCost(2)}},
	}
	srv := newTestServer(Options{Catalog: catalog})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodPost, "/price/task",
		`{"task": {"processes": [{"processId": "polish"}], "materials": [{"materialId": "wax"}]}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["baseCost"] != "54" {
		t.Errorf("baseCost = %v", body["baseCost"])
	}
	if catalog.calls != 1 {
		t.Errorf("catalog snapshots = %d", catalog.calls)
	}

	// Lookup lists in the request take precedence over the server catalog.
	resp, body = do(t, srv, http.MethodPost, "/price/task", `{
		"task": {"processes": [{"processId": "polish"}]},
		"availableProcesses": [{"id": "polish", "laborHours": 2}]
	}`)
	if resp.StatusCode != http.StatusOK || body["baseCost"] != "100" {
		t.Errorf("status = %d, baseCost = %v", resp.StatusCode, body["baseCost"])
	}
	if catalog.calls != 1 {
		t.Errorf("catalog consulted despite request lookups")
	}
}

func TestPriceTaskErrors(t *testing.T) {
	srv := newTestServer(Options{Catalog: &stubCatalog{err: errors.Storage("database locked", nil)}})
	defer srv.Close()

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing task", `{}`, http.StatusBadRequest, "TYPE_ERROR"},
		{"wrong json type", `{"task": {"processes": [{"process": {"laborHours": "2"}}]}}`, http.StatusBadRequest, "TYPE_ERROR"},
		{"zero quantity", `{"task": {"processes": [{"process": {"laborHours": 1}, "quantity": 0}]}}`, http.StatusBadRequest, "RANGE_ERROR"},
		{"unknown reference", `{"task": {"processes": [{"processId": "x"}]}, "availableProcesses": []}`, http.StatusBadRequest, "TYPE_ERROR"},
		{"catalog failure", `{"task": {"processes": [{"processId": "x"}]}}`, http.StatusInternalServerError, "STORAGE_ERROR"},
		{"malformed", `{"task": `, http.StatusBadRequest, "INPUT_ERROR"},
		{"empty body", ``, http.StatusBadRequest, "INPUT_ERROR"},
		{"invalid settings", `{"task": {}, "settings": {"pricing": {"businessFee": 2}}}`, http.StatusBadRequest, "RANGE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, http.MethodPost, "/price/task", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%v)", resp.StatusCode, tt.status, body)
			}
			if code := errorCode(body); code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
			if body["request_id"] == "" || body["request_id"] == nil {
				t.Error("missing request_id in error body")
			}
		})
	}
}

func TestPriceProcessAndMaterial(t *testing.T) {
	srv := newTestServer(Options{})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodPost, "/price/process",
		`{"process": {"laborHours": 1, "skillLevel": "expert", "materials": [{"estimatedCost": 20}]}, "settings": {"pricing": {"wage": 50}}}`)
	if resp.StatusCode != http.StatusOK || body["totalCost"] != "115" {
		t.Errorf("process: status = %d, totalCost = %v", resp.StatusCode, body["totalCost"])
	}

	resp, body = do(t, srv, http.MethodPost, "/price/process", `{"process": null}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "TYPE_ERROR" {
		t.Errorf("null process: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/price/material", `{"material": {"costPerPortion": 4}, "quantity": 3}`)
	if resp.StatusCode != http.StatusOK || body["totalCost"] != "24" {
		t.Errorf("material: status = %d, totalCost = %v", resp.StatusCode, body["totalCost"])
	}

	resp, body = do(t, srv, http.MethodPost, "/price/material", `{"material": {"costPerPortion": 4}, "quantity": -1}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "RANGE_ERROR" {
		t.Errorf("negative quantity: status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestPriceRetailAndWholesale(t *testing.T) {
	defaults := &pricing.AdminSettings{Pricing: &pricing.PricingSettings{
		AdministrativeFee: pricing.Float64(0.4),
		BusinessFee:       pricing.Float64(0.5),
		ConsumablesFee:    pricing.Float64(0.35),
	}}
	srv := newTestServer(Options{Settings: defaults})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodPost, "/price/retail", `{"baseCost": 40}`)
	if resp.StatusCode != http.StatusOK || body["retailPrice"] != "90" || body["businessMultiplier"] != "2.25" {
		t.Errorf("retail with server settings: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/price/retail", `{"baseCost": 100, "settings": {}}`)
	if resp.StatusCode != http.StatusOK || body["retailPrice"] != "200" {
		t.Errorf("retail with request settings: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/price/retail", `{}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "TYPE_ERROR" {
		t.Errorf("missing baseCost: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/price/wholesale",
		`{"retailPrice": 400, "baseCost": 100, "settings": {"pricing": {"wholesaleConfig": {"type": "percentage_of_retail"}}}}`)
	if resp.StatusCode != http.StatusOK || body["wholesalePrice"] != "200" || body["wholesaleType"] != "percentage_of_retail" {
		t.Errorf("wholesale: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/price/wholesale", `{"retailPrice": 90, "baseCost": 100}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "RANGE_ERROR" {
		t.Errorf("retail below base: status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestRates(t *testing.T) {
	srv := newTestServer(Options{Settings: &pricing.AdminSettings{Pricing: &pricing.PricingSettings{Wage: pricing.Float64(40)}}})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodGet, "/rates/Advanced", "")
	if resp.StatusCode != http.StatusOK || body["hourlyRate"] != "50" || body["skillLevel"] != "advanced" {
		t.Errorf("advanced: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodGet, "/rates/master", "")
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "RANGE_ERROR" {
		t.Errorf("unknown skill: status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestSettingsHealthVersion(t *testing.T) {
	srv := newTestServer(Options{Version: "1.2.3"})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodGet, "/settings", "")
	if resp.StatusCode != http.StatusOK || body["wage"] != "50" || body["materialMarkup"] != "2" {
		t.Errorf("settings: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "healthy" || body["catalog"] != false {
		t.Errorf("health: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodGet, "/version", "")
	if resp.StatusCode != http.StatusOK || body["version"] != "1.2.3" {
		t.Errorf("version: status = %d, body = %v", resp.StatusCode, body)
	}
	if types, _ := body["wholesale_types"].([]interface{}); len(types) != 3 {
		t.Errorf("wholesale_types = %v", body["wholesale_types"])
	}
}

func TestRoutingErrors(t *testing.T) {
	srv := newTestServer(Options{})
	defer srv.Close()

	resp, body := do(t, srv, http.MethodGet, "/nope", "")
	if resp.StatusCode != http.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Errorf("unknown route: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodGet, "/price/task", "")
	if resp.StatusCode != http.StatusMethodNotAllowed || errorCode(body) != "METHOD_NOT_ALLOWED" {
		t.Errorf("wrong method: status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	srv := newTestServer(Options{})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}
