package crmapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewHTTPClient(Config{
		BaseURL: srv.URL + "/",
		Token:   "secret-token",
		APIKey:  "anon-key",
	})
	return c, srv
}

func TestFetchActivities_BareArray(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultActivitiesPath {
			t.Errorf("Expected path %s, got %s", DefaultActivitiesPath, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Expected bearer auth, got %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("Expected apikey header, got %q", got)
		}
		if got := r.URL.Query().Get("from"); got != "2024-01-01" {
			t.Errorf("Expected from=2024-01-01, got %q", got)
		}
		if got := r.URL.Query().Get("tsm"); got != "M1" {
			t.Errorf("Expected tsm=M1, got %q", got)
		}
		w.Write([]byte(`[
			{"referenceid":"A1","tsm":"M1","traffic":"Sales","status":"Converted into Sales","so_amount":1500.5,"qty_sold":"2"},
			{"referenceid":"A2","so_amount":null,"remarks":{"nested":true}}
		]`))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := c.FetchActivities(context.Background(), ActivityQuery{From: &from, Manager: "M1"})
	if err != nil {
		t.Fatalf("FetchActivities failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].SOAmount != "1500.5" {
		t.Errorf("Expected numeric amount as text '1500.5', got %q", records[0].SOAmount)
	}
	if records[0].QtySold != "2" {
		t.Errorf("Expected qty '2', got %q", records[0].QtySold)
	}
	if records[1].SOAmount != "" || records[1].Remarks != "" {
		t.Errorf("Expected null and nested values to decode empty, got %+v", records[1])
	}
}

func TestFetchCompanies_Envelope(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"account_reference_number":1001,"company_name":"Acme"}]}`))
	})

	companies, err := c.FetchCompanies(context.Background())
	if err != nil {
		t.Fatalf("FetchCompanies failed: %v", err)
	}
	if len(companies) != 1 || companies[0].AccountReferenceNumber != "1001" || companies[0].CompanyName != "Acme" {
		t.Errorf("Unexpected companies: %+v", companies)
	}
}

func TestFetchAgents_EnvelopeError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"relation does not exist"}`))
	})

	_, err := c.FetchAgents(context.Background())
	if err == nil || !strings.Contains(err.Error(), "relation does not exist") {
		t.Errorf("Expected envelope error to surface, got %v", err)
	}
}

func TestFetch_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		header  map[string]string
		wantErr error
		wantMsg string
	}{
		{"Unauthorized", http.StatusUnauthorized, nil, ErrUnauthorized, "401"},
		{"Forbidden", http.StatusForbidden, nil, ErrUnauthorized, "403"},
		{"RateLimited", http.StatusTooManyRequests, map[string]string{"Retry-After": "30"}, ErrRateLimited, "Retry after 30"},
		{"NotFound", http.StatusNotFound, nil, nil, "not found"},
		{"ServerError", http.StatusBadGateway, nil, nil, "status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			})

			_, err := c.FetchAgents(context.Background())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected message to contain %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestFetch_CachesResponses(t *testing.T) {
	var hits int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[{"ReferenceID":"A1","Firstname":"Ana","Lastname":"Reyes"}]`))
	})

	for i := 0; i < 3; i++ {
		agents, err := c.FetchAgents(context.Background())
		if err != nil {
			t.Fatalf("FetchAgents failed: %v", err)
		}
		if agents[0].FullName() != "Ana Reyes" {
			t.Errorf("Expected 'Ana Reyes', got %q", agents[0].FullName())
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("Expected 1 request with cache, got %d", got)
	}

	c.InvalidateCache()
	if _, err := c.FetchAgents(context.Background()); err != nil {
		t.Fatalf("FetchAgents failed: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("Expected a fresh request after invalidation, got %d", got)
	}
}

func TestFetch_CacheDisabled(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, CacheTTL: -1})
	c.FetchCompanies(context.Background())
	c.FetchCompanies(context.Background())

	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("Expected 2 requests without cache, got %d", got)
	}
}

func TestThrottle_HonoursContext(t *testing.T) {
	c := NewHTTPClient(Config{BaseURL: "http://unused", RequestDelay: time.Hour})
	c.lastRequest = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := c.throttle(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"text"`, "text"},
		{`42`, "42"},
		{`-1.25`, "-1.25"},
		{`true`, "true"},
		{`null`, ""},
		{`[1,2]`, ""},
	}
	for _, tt := range tests {
		var f FlexString
		if err := f.UnmarshalJSON([]byte(tt.input)); err != nil {
			t.Errorf("UnmarshalJSON(%s) failed: %v", tt.input, err)
			continue
		}
		if string(f) != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %q, want %q", tt.input, f, tt.want)
		}
	}
}
