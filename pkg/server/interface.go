/*
Package server exposes the suggestion engine over two transports:

An HTTP JSON API for regular service deployments:

	GET /suggestions?q=Lond&latitude=43.70&longitude=-79.41

	{"suggestions": [{"name": "London, CA, America/Toronto", ...}], "count": 1, "time_ms": 0}

and a msgpack IPC mode over stdin/stdout for embedding in editors or
other host processes, one request and one response per message:

	{"id": "req_001", "q": "lond", "lat": 43.70, "lon": -79.41}
	{"id": "req_001", "s": [...], "c": 1, "t": 145}

Both transports enforce the same input rules: latitude and longitude
must be supplied as a pair or not at all, and queries are capped at the
configured maximum length. The engine itself is never invoked with a
half coordinate pair.
*/
package server

import "placeserve/pkg/suggest"

// SuggestionsResponse is the HTTP API response format
type SuggestionsResponse struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Count       int                  `json:"count"`
	Query       string               `json:"query,omitempty"`
	TimeTaken   int64                `json:"time_ms"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// IPC MESSAGES - msgpack over stdio

// SuggestRequest - minimal suggestion request
type SuggestRequest struct {
	ID        string   `msgpack:"id"`
	Query     string   `msgpack:"q,omitempty"`
	Latitude  *float64 `msgpack:"lat,omitempty"`
	Longitude *float64 `msgpack:"lon,omitempty"`
}

// IPCSuggestion - one ranked result
type IPCSuggestion struct {
	Name      string  `msgpack:"n"`
	Latitude  float64 `msgpack:"lat"`
	Longitude float64 `msgpack:"lon"`
	Score     float64 `msgpack:"sc"`
}

// SuggestResponse - suggestion response
type SuggestResponse struct {
	ID          string          `msgpack:"id"`
	Suggestions []IPCSuggestion `msgpack:"s"`
	Count       int             `msgpack:"c"`
	TimeTaken   int64           `msgpack:"t"`
}

// SuggestError holds basic error information for IPC requests
type SuggestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
