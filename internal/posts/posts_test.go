package posts

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/five82/postboard/internal/netclient"
)

type stubRequester struct {
	body []byte
	err  error
	url  string
}

func (s *stubRequester) Request(ctx context.Context, rawURL string, method netclient.Method) ([]byte, error) {
	s.url = rawURL
	return s.body, s.err
}

func TestPost_JSONRoundTrip(t *testing.T) {
	in := []Post{
		{OwnerID: 1, ID: 1, Title: "Test Title", Body: "Test Body"},
		{OwnerID: 7, ID: 42, Title: "ünïcode \"quoted\"", Body: "line1\nline2"},
	}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out []Post
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip = %#v, want %#v", out, in)
	}
}

func TestPost_UsesWireFieldNames(t *testing.T) {
	raw, err := json.Marshal(Post{OwnerID: 3, ID: 4, Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"userId":3,"id":4,"title":"t","body":"b"}`
	if string(raw) != want {
		t.Fatalf("json = %s, want %s", raw, want)
	}
}

func TestFetch(t *testing.T) {
	r := &stubRequester{body: []byte(`[{"userId":1,"id":1,"title":"Test Title","body":"Test Body"}]`)}
	got, err := Fetch(context.Background(), r, DefaultEndpoint)
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if r.url != DefaultEndpoint {
		t.Fatalf("url = %q, want %q", r.url, DefaultEndpoint)
	}
	want := []Post{{OwnerID: 1, ID: 1, Title: "Test Title", Body: "Test Body"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fetch = %#v, want %#v", got, want)
	}
}

func TestFetch_NullIsEmpty(t *testing.T) {
	got, err := Fetch(context.Background(), &stubRequester{body: []byte(`null`)}, DefaultEndpoint)
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Fetch = %#v, want empty non-nil", got)
	}
}

func TestFetch_Errors(t *testing.T) {
	if _, err := Fetch(context.Background(), &stubRequester{err: netclient.StatusError(500)}, DefaultEndpoint); err != netclient.StatusError(500) {
		t.Fatalf("error = %v, want status 500", err)
	}
	if _, err := Fetch(context.Background(), &stubRequester{body: []byte(`{"id":1}`)}, DefaultEndpoint); err != netclient.ErrDecoding {
		t.Fatalf("error = %v, want %v", err, netclient.ErrDecoding)
	}
}
