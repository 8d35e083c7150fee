package adapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveJSON(t *testing.T, status int, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
