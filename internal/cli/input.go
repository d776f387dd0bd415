// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"placeserve/pkg/suggest"
)

// InputHandler reads queries from stdin and prints ranked suggestions.
// A query may carry a caller coordinate after an '@':
//
//	toronto
//	toronto @ 43.70, -79.41
//	@ 43.70, -79.41
type InputHandler struct {
	engine         *suggest.Engine
	maxQueryLength int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *suggest.Engine, maxQueryLength int) *InputHandler {
	return &InputHandler{
		engine:         engine,
		maxQueryLength: maxQueryLength,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin.
func (h *InputHandler) Start() error {
	log.Print("PlaceServe CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a place name (optionally '@ lat, lon') and press Enter (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes one query line and displays suggestions
func (h *InputHandler) handleInput(line string) {
	query, lat, lon, err := splitQueryAndCoords(line)
	if err != nil {
		log.Errorf("Bad input: %v", err)
		return
	}
	if h.maxQueryLength > 0 && len(query) > h.maxQueryLength {
		log.Errorf("Query too long: %s", query)
		return
	}

	start := time.Now()
	suggestions, err := h.engine.GetSuggestions(query, lat, lon)
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Lookup failed: %v", err)
		return
	}

	log.Debugf("Took %v for query '%s'", elapsed, query)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions for '%s'", line)
		return
	}

	log.Printf("Found %d suggestions for '%s':", len(suggestions), line)
	for i, s := range suggestions {
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Name)
		log.Printf("%2d. %-56s (score: %.4f  lat: %9.5f  lon: %10.5f)", i+1, clName, s.Score, s.Latitude, s.Longitude)
	}
}

// splitQueryAndCoords parses "query @ lat, lon" lines. Both coordinate
// values must be present when the '@' marker is used.
func splitQueryAndCoords(line string) (string, *float64, *float64, error) {
	query, coordPart, found := strings.Cut(line, "@")
	query = strings.TrimSpace(query)
	if !found {
		return query, nil, nil, nil
	}

	latStr, lonStr, ok := strings.Cut(coordPart, ",")
	if !ok {
		return "", nil, nil, fmt.Errorf("expected 'lat, lon' after '@', got %q", coordPart)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return "", nil, nil, fmt.Errorf("bad latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return "", nil, nil, fmt.Errorf("bad longitude %q", lonStr)
	}
	return query, &lat, &lon, nil
}
