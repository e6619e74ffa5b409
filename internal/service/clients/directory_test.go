package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestListFetchesFromUserStore(t *testing.T) {
	var requests int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/users" {
			t.Errorf("expected /api/users, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"_id":"u1","firstName":"Ada","lastName":"Lovelace"},{"_id":"u2","firstName":"Grace","lastName":"Hopper"}]`))
	}))
	defer upstream.Close()

	d := NewDirectory(upstream.URL, nil, time.Minute, zap.NewNop())

	list, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(list))
	}
	if list[0].ID != "u1" || list[0].FirstName != "Ada" {
		t.Errorf("unexpected first client: %+v", list[0])
	}

	// No cache configured: every List goes upstream.
	if _, err := d.List(context.Background()); err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if requests != 2 {
		t.Errorf("expected 2 upstream requests without cache, got %d", requests)
	}
}

func TestListUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	d := NewDirectory(upstream.URL, nil, time.Minute, zap.NewNop())

	if _, err := d.List(context.Background()); err == nil {
		t.Fatal("expected error on upstream 500, got nil")
	}
}

func TestListDecodesEmptyDirectory(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	d := NewDirectory(upstream.URL, nil, time.Minute, zap.NewNop())

	list, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty directory, got %d", len(list))
	}
}
