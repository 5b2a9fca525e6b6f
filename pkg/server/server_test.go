package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SmitUplenchwar2687/Rewind/pkg/codec"
	"github.com/SmitUplenchwar2687/Rewind/pkg/storage"
)

func TestServerHealth(t *testing.T) {
	srv := New(":0", storage.NewMemoryStore(), WithFormat(codec.FormatCBOR))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
