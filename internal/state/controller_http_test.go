package state

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/five82/postboard/internal/netclient"
	"github.com/five82/postboard/internal/reachability"
)

func newHTTPController(t *testing.T, handler http.HandlerFunc) *Controller {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reach := reachability.NewSubject(true)
	client := netclient.NewClient(reach)
	c := New(reach, client, WithEndpoint(srv.URL+"/posts"))
	t.Cleanup(func() {
		c.Close()
		reach.Close()
	})
	return c
}

func TestController_HTTPSuccess(t *testing.T) {
	c := newHTTPController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, samplePosts)
	})

	snap := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && idle(s) })
	if snap.Items[0].Title != "Test Title" {
		t.Fatalf("Items[0].Title = %q, want %q", snap.Items[0].Title, "Test Title")
	}
	if snap.HasError() {
		t.Fatalf("ErrorMessage = %q, want none", snap.ErrorMessage)
	}
}

func TestController_HTTPStatus500NoBody(t *testing.T) {
	c := newHTTPController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	snap := waitFor(t, c, "error message", func(s ViewState) bool { return s.HasError() && idle(s) })
	if snap.ErrorMessage != "Received error code: 500" {
		t.Fatalf("ErrorMessage = %q, want %q", snap.ErrorMessage, "Received error code: 500")
	}
	if len(snap.Items) != 0 {
		t.Fatalf("Items = %#v, want empty", snap.Items)
	}
}
