package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	httpserver "github.com/carepoint-health/frontdesk-service/internal/http"
	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/testutil"
)

// TestServer is a complete in-process environment: real router and services
// over a memory store, recording publisher instead of RabbitMQ.
type TestServer struct {
	Server    *httptest.Server
	Store     *store.MemoryStore
	Publisher *testutil.RecordingPublisher
}

// SetupE2ETest builds the full HTTP stack with hermetic dependencies.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	st := store.NewMemoryStore()
	pub := &testutil.RecordingPublisher{}

	router, err := httpserver.SetupRouter(context.Background(), st, refdata.NewProvider(), &idgen.Sequence{}, pub, nil)
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Server: server, Store: st, Publisher: pub}
}

// BookableDate returns a date inside the booking window, skipping the weekly
// closed day.
func BookableDate(daysAhead int) string {
	d := time.Now().AddDate(0, 0, daysAhead)
	for d.Weekday() == refdata.ClosedWeekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(appointment.DateLayout)
}

// DoJSON sends a JSON request and decodes the JSON response into out.
func (ts *TestServer) DoJSON(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}
