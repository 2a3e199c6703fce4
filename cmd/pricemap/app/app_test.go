package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pricemap-tw/pricemap"
	"github.com/pricemap-tw/pricemap/pkg/logging"
)

const fixture = `locations:
  - id: 1
    city: 台北
    district: 大安區
    clinic: 仁愛診所
    type: clinic
    price5mg: 4000
  - id: 2
    city: 高雄
    district: 苓雅區
    clinic: 港都藥局
    type: pharmacy
    price5mg: 3000
  - id: 3
    city: 台北
    district: 信義區
    clinic: 信義醫院
    type: hospital
    price5mg: 3500
`

// newTestApp returns an app over a memory fixture that writes to out.
func newTestApp(t *testing.T, out *bytes.Buffer) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directory.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatal(err)
	}

	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithConfig(&Config{
			Backend:       "memory",
			Fixture:       path,
			Format:        "json",
			AddressSearch: true,
			LogOutput:     "discard",
		}),
		WithLogger(logging.NewNopLogger()),
		WithOutput(out),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_Client_ThreadSafe verifies concurrent Client() calls share one instance.
func TestApp_Client_ThreadSafe(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]pricemap.Client, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Client()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Goroutine %d: Client() failed: %v", i, err)
		}
	}
	for i, c := range results[1:] {
		if c != results[0] {
			t.Errorf("Goroutine %d got a different client", i+1)
		}
	}
}

// TestApp_Client_UnknownBackend verifies backend validation.
func TestApp_Client_UnknownBackend(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	app.config.Backend = "sqlite"

	if _, err := app.Client(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

// TestApp_Shutdown verifies shutdown with and without a client.
func TestApp_Shutdown(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() without client failed: %v", err)
	}

	if _, err := app.Client(); err != nil {
		t.Fatal(err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

func TestExecute_List(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)

	err := app.Execute(context.Background(), []string{"list", "--city", "台北", "--sort", "price5mg", "-o", "json"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var listing struct {
		CityLabel     string `json:"city_label"`
		DistinctCount int    `json:"distinct_count"`
		Locations     []struct {
			Name string `json:"clinic"`
		} `json:"locations"`
	}
	if err := json.Unmarshal(out.Bytes(), &listing); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if listing.CityLabel != "天龍國" || listing.DistinctCount != 2 {
		t.Errorf("banner = %q %d", listing.CityLabel, listing.DistinctCount)
	}
	if len(listing.Locations) != 2 || listing.Locations[0].Name != "信義醫院" {
		t.Errorf("locations = %+v", listing.Locations)
	}
}

func TestExecute_ListTable(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)

	if err := app.Execute(context.Background(), []string{"list", "-o", "table"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "全國: 3 間") {
		t.Errorf("missing banner in %q", out.String())
	}
	if !strings.Contains(out.String(), "NT$3,000") {
		t.Errorf("missing formatted price in %q", out.String())
	}
	if !strings.Contains(out.String(), "7.5mg") {
		t.Errorf("dose header rewritten in %q", out.String())
	}
}

func TestExecute_InvalidFlags(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})

	for _, args := range [][]string{
		{"list", "--sort", "rating"},
		{"list", "--category", "spa"},
		{"list", "-o", "xml"},
		{"show", "abc"},
		{"calc", "dose", "--pen", "6", "--dose", "2"},
	} {
		if err := app.Execute(context.Background(), args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestExecute_ReportAndDelete(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	ctx := context.Background()

	if err := app.Execute(ctx, []string{"report", "1", "--price", "5=3800", "--note", "週末休診"}); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	var outcome struct {
		Amended bool `json:"amended"`
		Report  struct {
			Name     string  `json:"clinic"`
			Price5mg float64 `json:"price5mg"`
		} `json:"report"`
	}
	if err := json.Unmarshal(out.Bytes(), &outcome); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if outcome.Amended || outcome.Report.Name != "仁愛診所" || outcome.Report.Price5mg != 3800 {
		t.Errorf("outcome = %+v", outcome)
	}

	out.Reset()
	if err := app.Execute(ctx, []string{"report", "1", "--price", "5=3700"}); err != nil {
		t.Fatalf("second report failed: %v", err)
	}
	if err := json.Unmarshal(out.Bytes(), &outcome); err != nil {
		t.Fatal(err)
	}
	if !outcome.Amended {
		t.Error("second report should amend")
	}

	if err := app.Execute(ctx, []string{"delete", "2", "--reason", "已歇業"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := app.Execute(ctx, []string{"delete", "2", "--reason", "重複"}); err == nil {
		t.Error("second deletion request should conflict")
	}
	if err := app.Execute(ctx, []string{"delete", "3"}); err == nil {
		t.Error("deletion without reason should fail")
	}
}

func TestExecute_Calc(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)

	if err := app.Execute(context.Background(), []string{"calc", "dose", "--pen", "5", "--dose", "2.5"}); err != nil {
		t.Fatalf("calc dose failed: %v", err)
	}
	var dose struct {
		Clicks float64 `json:"clicks"`
		Uses   float64 `json:"uses"`
	}
	if err := json.Unmarshal(out.Bytes(), &dose); err != nil {
		t.Fatal(err)
	}
	if dose.Clicks != 30 || dose.Uses != 8 {
		t.Errorf("dose = %+v", dose)
	}
}

func TestExecute_Export(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	path := filepath.Join(t.TempDir(), "export.json")

	if err := app.Execute(context.Background(), []string{"export", path}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out.String(), "Saved 3 locations") {
		t.Errorf("output = %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "港都藥局") {
		t.Error("export missing location")
	}
}

func TestExecute_Version(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)

	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "pricemap 1.0.0\n" {
		t.Errorf("version output = %q", got)
	}
}
