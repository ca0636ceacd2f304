package main

import (
	"bytes"
	"encoding/json"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrissnell/s2brdf/internal/observation"
	"github.com/chrissnell/s2brdf/pkg/config"
)

func TestRunSingleText(t *testing.T) {
	opts := options{
		format: "text",
		obs:    observation.Observation{Band: "B04", Reflectance: 0.12, SZA: 30, VZA: 10, SAA: 150, VAA: 100},
		set:    map[string]bool{},
	}

	var out bytes.Buffer
	if err := runSingle(config.Default(), opts, &out); err != nil {
		t.Fatalf("runSingle failed: %v", err)
	}
	if !strings.Contains(out.String(), "NBAR:        0.116336") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunSingleDerivesSunFromTime(t *testing.T) {
	opts := options{
		format:    "json",
		obs:       observation.Observation{Band: "B08", Reflectance: 0.3, VZA: 5, VAA: 100},
		timeStr:   "2024-07-15T10:30:00Z",
		latitude:  45,
		longitude: 10,
		set:       map[string]bool{},
	}

	var out bytes.Buffer
	if err := runSingle(config.Default(), opts, &out); err != nil {
		t.Fatalf("runSingle failed: %v", err)
	}

	var res struct {
		SZA float64 `json:"sza"`
		SAA float64 `json:"saa"`
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.SZA < 26 || res.SZA > 26.5 || res.SAA < 149 || res.SAA > 150 {
		t.Errorf("derived geometry sza=%v saa=%v", res.SZA, res.SAA)
	}

	// an explicit -sza wins over the derived one
	opts.obs.SZA = 40
	opts.set["sza"] = true
	out.Reset()
	if err := runSingle(config.Default(), opts, &out); err != nil {
		t.Fatalf("runSingle failed: %v", err)
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.SZA != 40 {
		t.Errorf("sza = %v, expected the explicit 40", res.SZA)
	}
}

func TestRunSingleErrors(t *testing.T) {
	if err := runSingle(config.Default(), options{set: map[string]bool{}}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error without -band")
	}

	opts := options{format: "text", obs: observation.Observation{Band: "B99"}, set: map[string]bool{}}
	err := runSingle(config.Default(), opts, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown band identifier") {
		t.Errorf("expected unknown band error, got %v", err)
	}
}

func TestRunSingleRejectsNonFinite(t *testing.T) {
	opts := options{
		format: "json",
		obs:    observation.Observation{Band: "B04", Reflectance: math.NaN(), SZA: 30, VZA: 10, SAA: 150, VAA: 100},
		set:    map[string]bool{},
	}
	var out bytes.Buffer
	err := runSingle(config.Default(), opts, &out)
	if err == nil || !strings.Contains(err.Error(), "reflectance") {
		t.Errorf("expected a reflectance error, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestRunBatchRejectsNonFiniteRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	csv := "band,reflectance,sza,vza,saa,vaa\nB04,NaN,30,10,150,100\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	var out bytes.Buffer
	err := runBatch(config.Default(), options{input: path, format: "json"}, &out)
	if err == nil || !strings.Contains(err.Error(), "line 2: column reflectance") {
		t.Errorf("expected a CSV error, got %v", err)
	}
}

func TestServePortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to bind: %v", err)
	}
	defer ln.Close()

	cfg := config.Default()
	cfg.Server.ListenAddr = "127.0.0.1"
	cfg.Server.HTTPPort = ln.Addr().(*net.TCPAddr).Port
	if err := serve(cfg); err == nil {
		t.Fatal("expected serve to fail on a bound port")
	}
}

func TestRunBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	csv := "band,reflectance,sza,vza,saa,vaa\nB04,0.12,30,10,150,100\nB02,0.05,45,0,0,0\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	var out bytes.Buffer
	opts := options{input: path, format: "text"}
	if err := runBatch(config.Default(), opts, &out); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out.String())
	}
	if lines[2] != "B02,0.05,45,0,0,0,1,0.05," {
		t.Errorf("nadir row = %q", lines[2])
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 9000\nlogging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := loadConfig(options{configFile: path, port: 9100, logLevel: "debug"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Server.HTTPPort != 9100 || cfg.Logging.Level != "debug" {
		t.Errorf("flags not applied: %+v", cfg)
	}

	if _, err := loadConfig(options{port: 99999}); err == nil {
		t.Error("expected a validation error for port 99999")
	}
}
