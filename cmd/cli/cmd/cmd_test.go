package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jewel-pricing/internal/errors"
)

// run executes the CLI with a fresh HOME so no user config leaks in
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfgFile, verbose, settingsFile, outputFormat, showDetails = "", false, "", "", true
	useCatalog, materialQuantity, catalogDB, initForce = false, 1, "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const ringTask = `{
	"processes": [{"process": {"laborHours": 2, "skillLevel": "standard",
		"materials": [{"estimatedCost": 10}, {"estimatedCost": 5}]}, "quantity": 2}],
	"materials": [{"material": {"estimatedCost": 10}, "quantity": 3}]
}`

func TestPriceTaskJSON(t *testing.T) {
	out, err := run(t, "price", "task", "--format", "json", writeTemp(t, "ring.json", ringTask))
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["retailPrice"] != "640" || decoded["wholesalePrice"] != "480" {
		t.Errorf("retail = %v, wholesale = %v", decoded["retailPrice"], decoded["wholesalePrice"])
	}
}

func TestPriceTaskCLIWithHCLSettings(t *testing.T) {
	settings := writeTemp(t, "shop.hcl", "pricing {\n  wage = 60\n}\n")
	out, err := run(t, "price", "task", "--settings", settings, writeTemp(t, "ring.json", ringTask))
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	// 2h x 60 + 30 materials = 150 per process, x2 = 300, plus 60 task materials
	if !strings.Contains(out, "RING") || !strings.Contains(out, "360.00 USD") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPriceTaskErrors(t *testing.T) {
	_, err := run(t, "price", "task", writeTemp(t, "bad.json", `{"processes": [{"process": {"laborHours": "two"}}]}`))
	if !errors.IsType(err, errors.TypeInvalidType) {
		t.Errorf("expected TYPE_ERROR, got %v", err)
	}

	_, err = run(t, "price", "task", writeTemp(t, "zero.json", `{"processes": [{"process": {}, "quantity": 0}]}`))
	if !errors.IsType(err, errors.TypeOutOfRange) {
		t.Errorf("expected RANGE_ERROR, got %v", err)
	}

	_, err = run(t, "price", "task", "--format", "yaml", writeTemp(t, "ring.json", ringTask))
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for unknown format, got %v", err)
	}
}

func TestPriceProcessAndMaterial(t *testing.T) {
	out, err := run(t, "price", "process", "--format", "markdown",
		writeTemp(t, "p.json", `{"name": "Set stone", "laborHours": 1, "skillLevel": "expert", "materials": [{"estimatedCost": 20}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "## Set stone") || !strings.Contains(out, "**115.00 USD**") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "price", "material", "--quantity", "3", writeTemp(t, "m.json", `{"costPerPortion": 4}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "24.00 USD") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCalculators(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"rate", "expert"}, "75.00 USD"},
		{[]string{"labor", "2", "basic"}, "75.00 USD"},
		{[]string{"multiplier"}, "Business multiplier: 2"},
		{[]string{"retail", "45.5"}, "91.00 USD"},
		{[]string{"wholesale", "200", "100"}, "150.00 USD"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}

	_, err := run(t, "rate", "master")
	if !errors.IsType(err, errors.TypeOutOfRange) {
		t.Errorf("unknown skill: %v", err)
	}
	_, err = run(t, "labor", "abc", "basic")
	if !errors.IsType(err, errors.TypeInvalidType) {
		t.Errorf("non-numeric hours: %v", err)
	}
	_, err = run(t, "wholesale", "50", "100")
	if !errors.IsType(err, errors.TypeOutOfRange) {
		t.Errorf("retail below base: %v", err)
	}
}

func TestCatalogWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	doc := writeTemp(t, "catalog.json", `{
		"processes": [{"id": "resize", "name": "Ring resize", "laborHours": 2}],
		"materials": [{"id": "solder", "name": "Solder", "stullerPrice": 4}]
	}`)

	out, err := run(t, "catalog", "import", "--db", db, doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 1 processes and 1 materials") {
		t.Errorf("unexpected import output: %s", out)
	}

	out, err = run(t, "catalog", "list", "--db", db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "resize") || !strings.Contains(out, "solder") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	t.Setenv("JEWEL_PRICING_DB", db)
	task := writeTemp(t, "task.json", `{"processes": [{"processId": "resize"}], "materials": [{"materialId": "solder", "quantity": 2}]}`)
	out, err = run(t, "price", "task", "--format", "json", task)
	if err != nil {
		t.Fatalf("price with catalog: %v", err)
	}
	if !strings.Contains(out, `"baseCost": "116"`) {
		t.Errorf("unexpected price output:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := run(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := run(t, "config", "init", "--config", path); err == nil {
		t.Error("expected error when config exists")
	}

	out, err := run(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, `"default_format": "cli"`) || !strings.Contains(out, `"wage": "50"`) {
		t.Errorf("unexpected show output:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "jewel-pricing version "+version) {
		t.Errorf("unexpected output: %s", out)
	}
}
