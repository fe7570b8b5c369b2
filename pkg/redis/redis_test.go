package redis

import (
	"context"
	"testing"

	"github.com/wonny/bluemf/backend/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(context.Background(), &config.Config{})
	cache := NewCache(client, "bluemf")
	ctx := context.Background()

	if cache.Enabled() {
		t.Fatal("Expected cache to be disabled")
	}

	// When Redis is disabled, cache operations should be no-ops
	if err := cache.Set(ctx, AnalysisKey("TCS"), map[string]string{"a": "b"}, TTLMedium); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result map[string]string
	found, err := cache.Get(ctx, AnalysisKey("TCS"), &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Delete(ctx, AnalysisKey("TCS"), CompanyListKey()); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestCache_NilIsDisabled(t *testing.T) {
	var cache *Cache
	if cache.Enabled() {
		t.Error("Expected nil cache to report disabled")
	}
}

func TestCacheKeys(t *testing.T) {
	cache := NewCache(&Client{}, "bluemf")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"AnalysisKey", AnalysisKey("HDFCBANK"), "analysis:HDFCBANK"},
		{"CompanyListKey", CompanyListKey(), "companies:list"},
		{"fullKey", cache.fullKey(AnalysisKey("TCS")), "bluemf:cache:analysis:TCS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
