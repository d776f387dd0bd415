package server

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"placeserve/internal/logger"
	"placeserve/pkg/suggest"
)

// IPCServer speaks msgpack over an arbitrary reader/writer pair,
// normally stdin/stdout. Requests are processed synchronously; the
// engine function is consulted per request so reloads take effect
// without restarting the loop. Stdout carries only the protocol, so
// all logging goes through a prefixed stderr logger.
type IPCServer struct {
	engineFn func() *suggest.Engine
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	log      *log.Logger
}

// NewIPCServer wires the IPC loop to an engine source.
func NewIPCServer(engineFn func() *suggest.Engine, in io.Reader, out io.Writer) *IPCServer {
	return &IPCServer{
		engineFn: engineFn,
		dec:      msgpack.NewDecoder(in),
		enc:      msgpack.NewEncoder(out),
		log:      logger.New("ipc"),
	}
}

// Start reads requests until EOF. Decode errors on a single message
// are reported to the peer and the loop keeps going; a broken pipe
// ends it.
func (s *IPCServer) Start() error {
	s.log.Debug("Starting IPC server")
	for {
		var req SuggestRequest
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleSuggest(req)
	}
}

func (s *IPCServer) handleSuggest(req SuggestRequest) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		s.sendError(req.ID, "latitude and longitude must be supplied together", 400)
		return
	}

	engine := s.engineFn()
	if engine == nil {
		s.sendError(req.ID, "Suggestion index not ready", 503)
		return
	}

	start := time.Now()
	suggestions, err := engine.GetSuggestions(req.Query, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, suggest.ErrCatalogNotReady) {
			s.sendError(req.ID, "Suggestion index not ready", 503)
			return
		}
		s.log.Errorf("Suggestion lookup failed: %v", err)
		s.sendError(req.ID, "Internal error", 500)
		return
	}

	out := make([]IPCSuggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		out = append(out, IPCSuggestion{
			Name:      sg.Name,
			Latitude:  sg.Latitude,
			Longitude: sg.Longitude,
			Score:     sg.Score,
		})
	}

	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   time.Since(start).Milliseconds(),
	})
}

func (s *IPCServer) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *IPCServer) sendError(id, message string, code int) {
	s.send(SuggestError{ID: id, Error: message, Code: code})
}
