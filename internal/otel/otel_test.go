package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/timvw/tmuxedo/internal/config"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		raw  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"Authorization=Basic abc", map[string]string{"Authorization": "Basic abc"}},
		{" a=1 , b = 2 ,=skip,novalue", map[string]string{"a": "1", "b": "2"}},
		{"k=v=w", map[string]string{"k": "v=w"}},
	}
	for _, tt := range tests {
		got := parseHeaders(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("parseHeaders(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("parseHeaders(%q)[%q] = %q, want %q", tt.raw, k, got[k], v)
			}
		}
	}
}

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	ctx := context.Background()
	tel, err := Init(ctx, OTELConfig{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer tel.Shutdown(ctx)

	if tel.Tracer == nil || tel.Metrics == nil {
		t.Fatal("Init should return a usable tracer and metrics")
	}
	_, span := tel.Tracer.Start(ctx, "test")
	span.End()
	tel.Metrics.RecordOperation(ctx, "install", OutcomeOK)
	tel.Metrics.RecordUpdateCheck(ctx, "current")
	tel.Metrics.RecordSeed(ctx, "clone", OutcomeError)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordOperation(ctx, "remove", OutcomeOK)
	m.RecordUpdateCheck(ctx, "error")
	m.RecordSeed(ctx, "pull", OutcomeOK)
}

func TestInitRejectsBadEndpoint(t *testing.T) {
	if _, err := Init(context.Background(), OTELConfig{Endpoint: "://bad"}); err == nil {
		t.Error("expected error for malformed endpoint")
	}
}

func TestInitRejectsEndpointWithoutHost(t *testing.T) {
	if _, err := Init(context.Background(), OTELConfig{Endpoint: "localhost"}); err == nil {
		t.Error("expected error for endpoint without scheme and host")
	}
}

func TestParseCollector(t *testing.T) {
	tests := []struct {
		endpoint string
		host     string
		basePath string
		insecure bool
	}{
		{"http://localhost:4318", "localhost:4318", "", true},
		{"https://cloud.example.com/api/public/otel/", "cloud.example.com", "/api/public/otel", false},
	}
	for _, tt := range tests {
		c, err := parseCollector(tt.endpoint, "Authorization=Basic abc")
		if err != nil {
			t.Fatalf("parseCollector(%q): %v", tt.endpoint, err)
		}
		if c.host != tt.host || c.basePath != tt.basePath || c.insecure != tt.insecure {
			t.Errorf("parseCollector(%q) = %+v", tt.endpoint, c)
		}
		if c.headers["Authorization"] != "Basic abc" {
			t.Errorf("headers = %v", c.headers)
		}
		if len(c.traceOptions()) != len(c.metricOptions()) {
			t.Error("trace and metric exporters should get the same options")
		}
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		TmuxDir:      "/home/u/.config/tmux",
		OTELEndpoint: "http://localhost:4318",
		OTELHeaders:  "a=1",
	}
	got := ConfigFrom(cfg, "bootstrap")
	if got.Endpoint != cfg.OTELEndpoint || got.Headers != "a=1" || got.Command != "bootstrap" {
		t.Errorf("ConfigFrom = %+v", got)
	}
	if got.PluginsDir != "/home/u/.config/tmux/plugins" {
		t.Errorf("PluginsDir = %q", got.PluginsDir)
	}
	if got.Catalog != BuiltinCatalog {
		t.Errorf("Catalog = %q, want %q", got.Catalog, BuiltinCatalog)
	}

	cfg.CatalogFile = "/etc/tmuxedo/catalog.yaml"
	if got := ConfigFrom(cfg, "tui"); got.Catalog != cfg.CatalogFile {
		t.Errorf("Catalog = %q, want the catalog file", got.Catalog)
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(OTELConfig{Command: "update", PluginsDir: "/p", Catalog: BuiltinCatalog})
	got := map[attribute.Key]string{}
	for _, kv := range attrs {
		got[kv.Key] = kv.Value.Emit()
	}
	want := map[attribute.Key]string{
		"service.name":        "tmuxedo",
		"service.version":     Version,
		"tmuxedo.command":     "update",
		"tmuxedo.plugins_dir": "/p",
		"tmuxedo.catalog":     BuiltinCatalog,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	if n := len(resourceAttributes(OTELConfig{})); n != 2 {
		t.Errorf("empty config gives %d attributes, want service name and version only", n)
	}
}
