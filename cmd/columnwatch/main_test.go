package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func writeFixture(t *testing.T, expected int, failOnUnhealthy bool) (configPath, metricsPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shop.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, status TEXT)`,
		`INSERT INTO orders (status) VALUES ('paid'), (NULL), ('N/A'), ('-'), (NULL), ('N/A')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed db: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close db: %v", err)
	}

	cfg := fmt.Sprintf(`
source:
  type: sqlite
  dsn: %s
log:
  level: error
failOnUnhealthy: %t
tables:
  - name: orders
    checks:
      - name: orders_status_missing
        entityLink: "<#E::table::shop.orders::columns::status>"
        type: columnValuesMissingCountToBeEqual
        parameterValues:
          - name: missingValueMatch
            value: "['N/A', '-']"
          - name: missingCountValue
            value: "%d"
`, dbPath, failOnUnhealthy, expected)

	configPath = filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath, filepath.Join(dir, "columnwatch.prom")
}

func TestRunCheck_Success(t *testing.T) {
	configPath, metricsPath := writeFixture(t, 5, true)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"columnwatch", "check", "--config", configPath, "--metrics-file", metricsPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr.String())
	}

	var report struct {
		Results []struct {
			Outcome struct {
				Status string `json:"testCaseStatus"`
				Result string `json:"result"`
			} `json:"outcome"`
		} `json:"results"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout.String())
	}
	if len(report.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(report.Results))
	}
	if got := report.Results[0].Outcome.Result; got != "Found missingCount=5. It should be 5." {
		t.Fatalf("unexpected result message %q", got)
	}
	if !strings.Contains(stderr.String(), "[INFO] orders/orders_status_missing") {
		t.Fatalf("summary missing from stderr: %s", stderr.String())
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `status="Success"`) {
		t.Fatalf("metrics file missing success counter:\n%s", data)
	}
}

func TestRunCheck_Unhealthy(t *testing.T) {
	configPath, _ := writeFixture(t, 4, true)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"columnwatch", "check", "--config", configPath}, &stdout, &stderr)
	if !errors.Is(err, errUnhealthy) {
		t.Fatalf("expected errUnhealthy, got %v", err)
	}
	if !strings.Contains(stderr.String(), "[BLOCK] orders/orders_status_missing: Found missingCount=5. It should be 4.") {
		t.Fatalf("unexpected summary: %s", stderr.String())
	}
}

func TestRunCheck_UnhealthyTolerated(t *testing.T) {
	configPath, _ := writeFixture(t, 4, false)
	var stdout, stderr bytes.Buffer

	if err := run(context.Background(), []string{"columnwatch", "check", "--config", configPath}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"columnwatch"}, &stdout, &stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Fatalf("expected usage, got %q", stdout.String())
	}

	if err := run(context.Background(), []string{"columnwatch", "explode"}, &stdout, &stdout); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if err := run(context.Background(), []string{"columnwatch", "check"}, &stdout, &stdout); err == nil {
		t.Fatal("expected error for missing --config")
	}
}

func TestRun_Kinds(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"columnwatch", "kinds"}, &stdout, &stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"columnValuesMissingCountToBeEqual", "nullCount", "countInSet"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("expected %s in output:\n%s", want, stdout.String())
		}
	}
}
