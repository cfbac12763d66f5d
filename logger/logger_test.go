package logger

import (
	"context"
	"strings"
	"testing"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	if v, ok := entry.Entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
}

func TestConfigureInvalidLevel(t *testing.T) {
	// Ensure environment variables do not override the provided level
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("invalid", "json", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestWithFieldsChaining(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("fusion_engine").WithFields(Fields{"match": "m"})
	if v, ok := entry.Entry.Data["component"]; !ok || v != "fusion_engine" {
		t.Fatalf("component field lost after chaining: %v", entry.Entry.Data)
	}
	if v, ok := entry.Entry.Data["match"]; !ok || v != "m" {
		t.Fatalf("match field missing: %v", entry.Entry.Data)
	}
}

func TestDashboardBodyUsesNamespace(t *testing.T) {
	prevNamespace, prevDashboard := cwNamespace, cwDashboard
	defer func() { cwNamespace, cwDashboard = prevNamespace, prevDashboard }()

	cwNamespace = "TestFlow"
	body := dashboardBody()
	if !strings.Contains(body, `["TestFlow","MatchesRun"]`) {
		t.Fatalf("dashboard body missing namespaced metric:\n%s", body)
	}
	if !strings.Contains(body, "TestFlow Pipeline Metrics") {
		t.Fatalf("dashboard title should carry the namespace:\n%s", body)
	}
}

func TestCreateDefaultDashboardWithoutClient(t *testing.T) {
	prev := cwClient
	defer func() { cwClient = prev }()

	cwClient = nil
	// Must be a no-op until InitCloudWatch has succeeded.
	CreateDefaultDashboard(context.Background())
}

func TestStreamCounters(t *testing.T) {
	RecordStreamItem("test_stream", 128)
	RecordStreamItem("test_stream", 64)

	v, ok := streams.Load("test_stream")
	if !ok {
		t.Fatal("stream stat not recorded")
	}
	cs := v.(*streamStat)
	if cs.items != 2 || cs.bytes != 192 {
		t.Fatalf("unexpected stream stat: items=%d bytes=%d", cs.items, cs.bytes)
	}
}
