package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"placeserve/pkg/catalog"
	"placeserve/pkg/config"
	"placeserve/pkg/suggest"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func testServer(t *testing.T) *Server {
	t.Helper()
	places := []*catalog.Place{
		{
			ID: 6167865, Name: "Toronto", ASCIIName: "Toronto",
			Latitude: 43.70011, Longitude: -79.4163,
			Country: "CA", Population: 2731571, Timezone: "America/Toronto",
		},
		{
			ID: 6091104, Name: "North York", ASCIIName: "North York",
			Latitude: 43.76681, Longitude: -79.4163,
			Country: "CA", Population: 636000, Timezone: "America/Toronto",
		},
	}
	engine, err := suggest.Build(catalog.New(places))
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	srv := NewServer(config.DefaultConfig())
	srv.SetEngine(engine)
	return srv
}

func doRequest(t *testing.T, srv *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeSuggestions(t *testing.T, rec *httptest.ResponseRecorder) SuggestionsResponse {
	t.Helper()
	var resp SuggestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestSuggestionsQueryOnly(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, "/suggestions?q=Toronto")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeSuggestions(t, rec)
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Suggestions[0].Name != "Toronto, CA, America/Toronto" {
		t.Errorf("name = %q", resp.Suggestions[0].Name)
	}
}

func TestSuggestionsCoordsOnly(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, "/suggestions?latitude=43.70011&longitude=-79.4163")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeSuggestions(t, rec)
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if !strings.HasPrefix(resp.Suggestions[0].Name, "Toronto") {
		t.Errorf("closest first: got %q", resp.Suggestions[0].Name)
	}
}

func TestSuggestionsNoSignal(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, "/suggestions")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeSuggestions(t, rec)
	if resp.Count != 0 || resp.Suggestions == nil {
		t.Errorf("expected empty (not null) suggestion list, body: %s", rec.Body.String())
	}
}

func TestSuggestionsValidation(t *testing.T) {
	srv := testServer(t)

	testCases := []struct {
		name string
		url  string
	}{
		{"half pair latitude only", "/suggestions?q=tor&latitude=43.7"},
		{"half pair longitude only", "/suggestions?q=tor&longitude=-79.4"},
		{"unparsable latitude", "/suggestions?latitude=abc&longitude=-79.4"},
		{"latitude out of range", "/suggestions?latitude=91&longitude=0"},
		{"longitude out of range", "/suggestions?latitude=0&longitude=181"},
		{"query too long", "/suggestions?q=" + strings.Repeat("a", 200)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, srv, tc.url)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSuggestionsIndexNotReady(t *testing.T) {
	srv := NewServer(config.DefaultConfig())
	rec := doRequest(t, srv, "/suggestions?q=toronto")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	if rec := doRequest(t, srv, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("ready health status = %d, want 200", rec.Code)
	}

	empty := NewServer(config.DefaultConfig())
	if rec := doRequest(t, empty, "/healthz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("loading health status = %d, want 503", rec.Code)
	}
}

func TestSuggestionsNoMatches(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, "/suggestions?q=Zzzznotacity")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no matches is not an error)", rec.Code)
	}
	if resp := decodeSuggestions(t, rec); resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}
