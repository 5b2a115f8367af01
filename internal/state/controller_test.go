package state

import (
	"reflect"
	"testing"
	"time"

	"github.com/five82/postboard/internal/netclient"
	"github.com/five82/postboard/internal/posts"
	"github.com/five82/postboard/internal/testutil"
)

const samplePosts = `[{"userId":1,"id":1,"title":"Test Title","body":"Test Body"}]`

func newController(t *testing.T, online bool, req *testutil.FakeRequester) (*Controller, *testutil.FakeReachability) {
	t.Helper()
	reach := testutil.NewFakeReachability(online)
	c := New(reach, req, WithEndpoint("https://example.test/posts"))
	t.Cleanup(func() {
		c.Close()
		reach.Close()
	})
	return c, reach
}

func waitFor(t *testing.T, c *Controller, desc string, cond func(ViewState) bool) ViewState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := c.State()
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s; last state %+v", desc, snap)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func waitCalls(t *testing.T, req *testutil.FakeRequester, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for req.Calls() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %d requests, got %d", n, req.Calls())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func idle(s ViewState) bool { return !s.IsLoading }

func TestController_FetchSuccess(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(samplePosts), nil)

	c, _ := newController(t, true, req)

	snap := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && !s.IsLoading })
	if snap.Items[0].Title != "Test Title" {
		t.Fatalf("Items[0].Title = %q, want %q", snap.Items[0].Title, "Test Title")
	}
	if snap.HasError() {
		t.Fatalf("ErrorMessage = %q, want empty", snap.ErrorMessage)
	}
	if !snap.IsConnected {
		t.Fatalf("IsConnected = false, want true")
	}
	if got := req.URLs(); len(got) == 0 || got[0] != "https://example.test/posts" {
		t.Fatalf("requested URLs = %v", got)
	}
}

func TestController_PreservesOrder(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(`[
		{"userId":3,"id":9,"title":"c","body":"z"},
		{"userId":1,"id":2,"title":"a","body":"x"},
		{"userId":2,"id":5,"title":"b","body":"y"}
	]`), nil)

	c, _ := newController(t, true, req)
	snap := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 3 && !s.IsLoading })

	want := []posts.Post{
		{OwnerID: 3, ID: 9, Title: "c", Body: "z"},
		{OwnerID: 1, ID: 2, Title: "a", Body: "x"},
		{OwnerID: 2, ID: 5, Title: "b", Body: "y"},
	}
	if !reflect.DeepEqual(snap.Items, want) {
		t.Fatalf("Items = %#v, want %#v", snap.Items, want)
	}
}

func TestController_EmptyListReportsNoPosts(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(`[]`), nil)

	c, _ := newController(t, true, req)
	waitCalls(t, req, 1)
	snap := waitFor(t, c, "no posts message", func(s ViewState) bool { return s.ErrorMessage == MsgNoPosts && idle(s) })
	if len(snap.Items) != 0 {
		t.Fatalf("Items = %#v, want empty", snap.Items)
	}
}

func TestController_StatusErrorOnFirstFetch(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult(nil, netclient.StatusError(500))

	c, _ := newController(t, true, req)
	waitCalls(t, req, 1)
	snap := waitFor(t, c, "error message", func(s ViewState) bool { return s.HasError() && idle(s) })
	if snap.ErrorMessage != "Received error code: 500" {
		t.Fatalf("ErrorMessage = %q, want %q", snap.ErrorMessage, "Received error code: 500")
	}
	if len(snap.Items) != 0 {
		t.Fatalf("Items = %#v, want empty", snap.Items)
	}
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
}

func TestController_FailureKeepsPreviousItems(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(samplePosts), nil)

	c, _ := newController(t, true, req)
	before := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && idle(s) })

	req.SetResult(nil, netclient.StatusError(500))
	c.Retry()
	waitCalls(t, req, 2)

	after := waitFor(t, c, "error message", func(s ViewState) bool { return s.HasError() && idle(s) })
	if after.ErrorMessage != "Received error code: 500" {
		t.Fatalf("ErrorMessage = %q", after.ErrorMessage)
	}
	if !reflect.DeepEqual(after.Items, before.Items) {
		t.Fatalf("Items changed on failure: %#v -> %#v", before.Items, after.Items)
	}
}

func TestController_SuccessClearsPreviousError(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult(nil, netclient.ErrDecoding)

	c, _ := newController(t, true, req)
	waitCalls(t, req, 1)
	waitFor(t, c, "decode error", func(s ViewState) bool { return s.ErrorMessage == "Error decoding data" && idle(s) })

	req.SetResult([]byte(samplePosts), nil)
	c.Fetch()
	snap := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && idle(s) })
	if snap.HasError() {
		t.Fatalf("ErrorMessage = %q, want empty", snap.ErrorMessage)
	}
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
}

func TestController_OfflineFetchNeverCallsClient(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(samplePosts), nil)

	c, _ := newController(t, false, req)
	waitFor(t, c, "offline message", func(s ViewState) bool { return s.ErrorMessage == MsgNoConnection })
	time.Sleep(20 * time.Millisecond)

	first := c.State().ErrorID
	c.Fetch()
	c.Retry()
	snap := waitFor(t, c, "retry handled", func(s ViewState) bool { return s.ErrorID != first })

	if req.Calls() != 0 {
		t.Fatalf("client called %d times while offline, want 0", req.Calls())
	}
	if snap.IsLoading || snap.IsConnected {
		t.Fatalf("state = %+v, want not loading and not connected", snap)
	}
	if snap.ErrorMessage != MsgNoConnection {
		t.Fatalf("ErrorMessage = %q, want %q", snap.ErrorMessage, MsgNoConnection)
	}
}

func TestController_ReconnectFetchesWhenEmpty(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(samplePosts), nil)

	c, reach := newController(t, false, req)
	waitFor(t, c, "offline", func(s ViewState) bool { return s.ErrorMessage == MsgNoConnection })

	reach.Set(true)
	snap := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && idle(s) })
	if !snap.IsConnected || snap.HasError() {
		t.Fatalf("state = %+v, want connected with no message", snap)
	}
	if req.Calls() != 1 {
		t.Fatalf("calls = %d, want 1", req.Calls())
	}
}

func TestController_DisconnectKeepsItemsAndReconnectDoesNotRefetch(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult([]byte(samplePosts), nil)

	c, reach := newController(t, true, req)
	loaded := waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && idle(s) })

	reach.Set(false)
	off := waitFor(t, c, "offline", func(s ViewState) bool { return !s.IsConnected })
	if off.ErrorMessage != MsgNoConnection {
		t.Fatalf("ErrorMessage = %q, want %q", off.ErrorMessage, MsgNoConnection)
	}
	if off.IsLoading {
		t.Fatalf("IsLoading = true after disconnect")
	}
	if !reflect.DeepEqual(off.Items, loaded.Items) {
		t.Fatalf("Items changed on disconnect")
	}

	reach.Set(true)
	on := waitFor(t, c, "online", func(s ViewState) bool { return s.IsConnected })
	if on.HasError() {
		t.Fatalf("ErrorMessage = %q, want cleared on reconnect", on.ErrorMessage)
	}
	// Give a stray fetch a chance to show up.
	time.Sleep(20 * time.Millisecond)
	if req.Calls() != 1 {
		t.Fatalf("calls = %d, want 1 (no refetch with items present)", req.Calls())
	}
}

func TestController_ProcessesEveryReachabilityEmission(t *testing.T) {
	req := &testutil.FakeRequester{}
	req.SetResult(nil, netclient.StatusError(503))

	c, reach := newController(t, false, req)
	waitFor(t, c, "offline", func(s ViewState) bool { return s.ErrorMessage == MsgNoConnection })

	// Items stay empty because every fetch fails, so each true edge must fetch.
	seq := []bool{true, false, true, false, true}
	trueEdges := 0
	for _, v := range seq {
		reach.Set(v)
		if v {
			trueEdges++
			waitCalls(t, req, trueEdges)
		}
		want := v
		waitFor(t, c, "connectivity mirrored", func(s ViewState) bool { return s.IsConnected == want && idle(s) })
	}
	if req.Calls() != trueEdges {
		t.Fatalf("calls = %d, want %d", req.Calls(), trueEdges)
	}

	// A burst without waiting still ends on the last value.
	for _, v := range []bool{false, true, false, true, false} {
		reach.Set(v)
	}
	waitFor(t, c, "burst settled", func(s ViewState) bool { return !s.IsConnected && idle(s) })
}

func TestController_IgnoresFetchWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	req := &testutil.FakeRequester{Gate: gate}
	req.SetResult([]byte(samplePosts), nil)

	c, _ := newController(t, true, req)
	waitCalls(t, req, 1)
	waitFor(t, c, "loading", func(s ViewState) bool { return s.IsLoading })

	c.Fetch()
	c.Retry()
	c.Fetch()
	time.Sleep(20 * time.Millisecond)
	if req.Calls() != 1 {
		t.Fatalf("calls = %d while in flight, want 1", req.Calls())
	}

	gate <- struct{}{}
	waitFor(t, c, "posts loaded", func(s ViewState) bool { return len(s.Items) == 1 && idle(s) })

	c.Fetch()
	waitCalls(t, req, 2)
	gate <- struct{}{}
	waitFor(t, c, "second fetch done", idle)
}

func TestController_CloseDropsPendingResult(t *testing.T) {
	gate := make(chan struct{})
	req := &testutil.FakeRequester{Gate: gate}
	req.SetResult([]byte(samplePosts), nil)

	reach := testutil.NewFakeReachability(true)
	defer reach.Close()
	c := New(reach, req)

	waitCalls(t, req, 1)
	waitFor(t, c, "loading", func(s ViewState) bool { return s.IsLoading })

	c.Close()
	c.Close()

	// Calls after Close are no-ops.
	c.Fetch()
	reach.Set(false)

	snap := c.State()
	if len(snap.Items) != 0 {
		t.Fatalf("Items = %#v after Close, want empty", snap.Items)
	}
	if !snap.IsConnected {
		t.Fatalf("closed controller should not track reachability")
	}
	if req.Calls() != 1 {
		t.Fatalf("calls = %d, want 1", req.Calls())
	}
}
