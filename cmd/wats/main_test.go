package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/internal/watstest"
)

func writeConfig(t *testing.T, srv *watstest.Server, allowWrites bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &config.Config{
		BaseURL:     srv.URL,
		Token:       watstest.Token,
		AllowWrites: allowWrites,
		CacheDir:    t.TempDir(),
	}
	cfg.ApplyDefaults()
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "0.1.0") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wats", "config.yaml")

	if _, err := runCLI(t, "--config", path, "config", "init", "--base-url", "https://acme.wats.com/", "--token", "s3cret"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCLI(t, "--config", path, "config", "init", "--base-url", "https://acme.wats.com", "--token", "x"); err == nil {
		t.Error("expected error overwriting without --force")
	}

	out, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "s3cret") {
		t.Error("token not masked")
	}
	if !strings.Contains(out, "https://acme.wats.com") {
		t.Errorf("show output = %s", out)
	}
}

func TestUnitGet(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Production/Unit/{sn}/{pn}", http.StatusOK, map[string]any{
		"serialNumber": "SN-1",
		"partNumber":   "PCBA-100",
	})
	path := writeConfig(t, srv, false)

	out, err := runCLI(t, "--config", path, "unit", "get", "SN-1", "PCBA-100")
	if err != nil {
		t.Fatalf("unit get: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if got["serialNumber"] != "SN-1" {
		t.Errorf("output = %v", got)
	}
	if p := srv.Last(t).Path; p != "/api/Production/Unit/SN-1/PCBA-100" {
		t.Errorf("path = %s", p)
	}
}

func TestReportQuery(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Report/Query/Header", http.StatusOK, []any{})
	path := writeConfig(t, srv, false)

	if _, err := runCLI(t, "--config", path, "report", "query", "-f", "result eq 'Failed'", "--top", "5"); err != nil {
		t.Fatalf("report query: %v", err)
	}
	q := srv.Last(t).Query
	if q.Get("$filter") != "result eq 'Failed'" || q.Get("$top") != "5" || q.Get("$orderby") != "start desc" {
		t.Errorf("query = %v", q)
	}
}

func TestReportGetInvalidID(t *testing.T) {
	if _, err := runCLI(t, "report", "get", "not-a-uuid"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCall(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/internal/Mes/GetUnitPhases", http.StatusOK, []string{"Finalized"})
	srv.Status(http.MethodDelete, "/api/Asset", http.StatusNoContent)

	readOnly := writeConfig(t, srv, false)
	out, err := runCLI(t, "--config", readOnly, "call", "get", "Mes/GetUnitPhases", "-g", "internal", "-q", "a=1")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !strings.Contains(out, "Finalized") {
		t.Errorf("output = %q", out)
	}
	last := srv.Last(t)
	if last.Header.Get("Referer") != srv.URL || last.Query.Get("a") != "1" {
		t.Errorf("request = %+v", last)
	}

	if _, err := runCLI(t, "--config", readOnly, "call", "delete", "/api/Asset"); err == nil {
		t.Error("expected writes-disabled error")
	}

	writable := writeConfig(t, srv, true)
	out, err = runCLI(t, "--config", writable, "call", "delete", "/api/Asset", "-q", "serialNumber=FX-1")
	if err != nil {
		t.Fatalf("call delete: %v", err)
	}
	if strings.TrimSpace(out) != "status: 204" {
		t.Errorf("output = %q", out)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Product/{pn}", http.StatusNotFound, map[string]string{"Message": "Product not found"})
	path := writeConfig(t, srv, false)

	_, err := runCLI(t, "--config", path, "product", "get", "NOPE")
	if err == nil || !strings.Contains(err.Error(), "Product not found") {
		t.Errorf("err = %v", err)
	}
}
