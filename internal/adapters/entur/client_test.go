package entur

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

const boardJSON = `{
  "data": {
    "board": [
      {
        "name": "Jernbanetorget",
        "estimatedCalls": [
          {
            "destinationDisplay": {"frontText": "Bergkrystallen"},
            "quay": {"publicCode": "2"},
            "expectedDepartureTime": "2025-03-19T22:37:00+01:00",
            "aimedDepartureTime": "2025-03-19T22:36:00+01:00",
            "serviceJourney": {"line": {"publicCode": "4", "transportMode": "metro"}}
          },
          {
            "destinationDisplay": {"frontText": "Oslo lufthavn"},
            "quay": {"publicCode": null},
            "expectedDepartureTime": "2025-03-19T22:41:00+01:00",
            "aimedDepartureTime": "2025-03-19T22:40:00+01:00",
            "serviceJourney": {"line": {"publicCode": "FB1", "transportMode": "bus"}}
          },
          {
            "destinationDisplay": null,
            "quay": null,
            "expectedDepartureTime": "2025-03-19T22:45:00+01:00",
            "aimedDepartureTime": "2025-03-19T22:45:00+01:00",
            "serviceJourney": {"line": null}
          }
        ]
      }
    ]
  }
}`

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{URL: url, ClientName: "acme-dashboard", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestDeparturesQueryParses(t *testing.T) {
	if err := parseQuery(departuresQuery, operationName); err != nil {
		t.Fatalf("departures query invalid: %v", err)
	}
	if err := parseQuery(departuresQuery, "missing"); err == nil {
		t.Error("expected error for unknown operation")
	}
	if err := parseQuery("query { board(", operationName); err == nil {
		t.Error("expected parse error")
	}
}

func TestClient_FetchDepartures(t *testing.T) {
	var got graphQLRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("ET-Client-Name") != "acme-dashboard" {
			t.Errorf("missing client name header, got %q", r.Header.Get("ET-Client-Name"))
		}
		if r.Header.Get("X-Correlation-Id") == "" {
			t.Error("expected correlation id header")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(boardJSON))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	now := time.Date(2025, 3, 19, 21, 30, 0, 0, time.UTC)
	out, err := c.FetchDepartures(context.Background(), domain.DepartureQuery{
		StopID:        "NSR:StopPlace:58366",
		WindowMinutes: 30,
		LeadMinutes:   3,
		Limit:         200,
		Now:           now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.Query, "whiteListedModes: [rail, bus, metro, tram, water, coach]") {
		t.Errorf("expected every board mode in query, got %s", got.Query)
	}
	if got.OperationName != "board" {
		t.Errorf("expected operation board, got %q", got.OperationName)
	}
	if v := got.Variables["startTime"]; v != "2025-03-19T21:33:00.000Z" {
		t.Errorf("unexpected startTime %v", v)
	}
	if v := got.Variables["timeRange"]; v != float64(1800) {
		t.Errorf("expected timeRange 1800, got %v", v)
	}
	if v := got.Variables["numberOfDepartures"]; v != float64(200) {
		t.Errorf("expected numberOfDepartures 200, got %v", v)
	}
	if ids, _ := got.Variables["ids"].([]any); len(ids) != 1 || ids[0] != "NSR:StopPlace:58366" {
		t.Errorf("unexpected ids %v", got.Variables["ids"])
	}

	if out.StopName != "Jernbanetorget" {
		t.Errorf("expected Jernbanetorget, got %s", out.StopName)
	}
	if len(out.Departures) != 3 {
		t.Fatalf("expected 3 departures, got %d", len(out.Departures))
	}

	first := out.Departures[0]
	if *first.LineCode != "4" || *first.Platform != "2" || *first.Destination != "Bergkrystallen" || *first.TransportMode != "metro" {
		t.Errorf("unexpected first departure: %+v", first)
	}
	if out.Departures[1].Platform != nil {
		t.Error("null publicCode should map to nil platform")
	}
	third := out.Departures[2]
	if third.Destination != nil || third.LineCode != nil || third.Platform != nil {
		t.Errorf("missing nested objects should map to nil fields: %+v", third)
	}
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).FetchDepartures(context.Background(), domain.DepartureQuery{StopID: "x"})
	var up *domain.UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if up.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", up.StatusCode)
	}
	if !errors.Is(err, domain.ErrUpstream) {
		t.Error("expected ErrUpstream")
	}
}

func TestClient_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Invalid id"},{"message":"second"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).FetchDepartures(context.Background(), domain.DepartureQuery{StopID: "x"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_UnknownStop(t *testing.T) {
	for _, body := range []string{`{"data":{"board":[]}}`, `{"data":{"board":[null]}}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := newTestClient(t, server.URL).FetchDepartures(context.Background(), domain.DepartureQuery{StopID: "NSR:StopPlace:0"})
		if !errors.Is(err, domain.ErrUpstream) {
			t.Errorf("body %s: expected ErrUpstream, got %v", body, err)
		}
		server.Close()
	}
}

func TestClient_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).FetchDepartures(context.Background(), domain.DepartureQuery{StopID: "x"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL, ClientName: "acme-dashboard", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.FetchDepartures(context.Background(), domain.DepartureQuery{StopID: "NSR:StopPlace:58366"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, "http://127.0.0.1:1").FetchDepartures(ctx, domain.DepartureQuery{StopID: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
