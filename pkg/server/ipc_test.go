package server

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"placeserve/pkg/suggest"
)

func runIPC(t *testing.T, engine *suggest.Engine, requests ...interface{}) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	srv := NewIPCServer(func() *suggest.Engine { return engine }, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return msgpack.NewDecoder(&out)
}

func TestIPCSuggest(t *testing.T) {
	srv := testServer(t)

	dec := runIPC(t, srv.Engine(), SuggestRequest{ID: "req_001", Query: "toronto"})

	var resp SuggestResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != "req_001" || resp.Count != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Suggestions[0].Name != "Toronto, CA, America/Toronto" {
		t.Errorf("name = %q", resp.Suggestions[0].Name)
	}
}

func TestIPCHalfCoordinatePair(t *testing.T) {
	srv := testServer(t)
	lat := 43.7

	dec := runIPC(t, srv.Engine(), SuggestRequest{ID: "req_002", Query: "tor", Latitude: &lat})

	var errResp SuggestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if errResp.ID != "req_002" || errResp.Code != 400 {
		t.Errorf("unexpected error response: %+v", errResp)
	}
}

func TestIPCEngineNotReady(t *testing.T) {
	dec := runIPC(t, nil, SuggestRequest{ID: "req_003", Query: "tor"})

	var errResp SuggestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if errResp.Code != 503 {
		t.Errorf("code = %d, want 503", errResp.Code)
	}
}
