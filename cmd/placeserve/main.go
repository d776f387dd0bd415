/*
Package main implements the place suggestion server and CLI application.

PlaceServe ranks place-name suggestions for autocomplete. Given a free
text query and/or a caller coordinate it returns a score-ranked list of
matching places, blending text-match quality with proximity to the
caller or place importance (population). Matching is served from an
in-memory prefix trie with a Levenshtein fallback for typos; the whole
index is rebuilt from the source catalog at startup and on SIGHUP.

# Usage

Start the HTTP server with default settings:

	placeserve

Use a custom catalog file and enable debug mode:

	placeserve -data /path/to/cities.tsv -d

Run in CLI mode for interactive testing:

	placeserve -c -data data/places.tsv

The catalog file is a geonames-format TSV dump (cities1000.txt and
friends). The suggestion API is served at:

	GET /suggestions?q=Lond&latitude=43.70&longitude=-79.41

Health and Prometheus metrics live at /healthz and /metrics.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	port = 8080
	max_query = 60
	rate_limit = 50

	[data]
	path = "data/places.tsv"

The config file is automatically created with defaults if it doesn't
exist. Flags override the file where both are given.

# IPC Mode

With -ipc the process speaks msgpack over stdin/stdout instead of HTTP,
for embedding in editors or other host processes:

	{"id": "req1", "q": "lond", "lat": 43.70, "lon": -79.41}

# Reload

SIGHUP rebuilds the whole index from the catalog file and swaps it in
atomically; requests in flight keep reading the old index.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"placeserve/internal/cli"
	"placeserve/pkg/catalog"
	"placeserve/pkg/config"
	"placeserve/pkg/server"
	"placeserve/pkg/suggest"
)

const (
	Version = "1.2.0"
	AppName = "placeserve"
)

// sigHandler exits cleanly on interrupt and rebuilds the suggestion
// index (build-into-new-then-swap) on SIGHUP.
func sigHandler(srv *server.Server, dataPath string) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range c {
			if sig != syscall.SIGHUP {
				fmt.Fprintf(os.Stderr, "\nExiting...\n")
				os.Exit(0)
			}
			log.Infof("SIGHUP: reloading catalog from %s", dataPath)
			engine, err := buildEngine(dataPath)
			if err != nil {
				log.Errorf("Reload failed, keeping current index: %v", err)
				continue
			}
			srv.SetEngine(engine)
			log.Info("Reload done")
		}
	}()
}

// buildEngine loads the catalog and constructs a fresh engine. The
// engine is complete before it is returned; callers publish it.
func buildEngine(dataPath string) (*suggest.Engine, error) {
	cat, err := catalog.LoadTSV(dataPath)
	if err != nil {
		return nil, err
	}
	return suggest.Build(cat)
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "placeserve.toml", "Path to the TOML config file")
	dataPath := flag.String("data", "", "Geonames-format TSV catalog file (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	ipcMode := flag.Bool("ipc", false, "Serve msgpack IPC over stdin/stdout instead of HTTP")
	port := flag.Int("port", defaultConfig.Server.Port, "HTTP listen port")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ PlaceServe ] Ranked place-name suggestions!")
		logger.Print("", "version", Version)
		logger.Print("use -h or --help to see available options")

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	appConfig, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataPath == "" {
		*dataPath = appConfig.Data.Path
	}
	if *port != defaultConfig.Server.Port {
		appConfig.Server.Port = *port
	}

	log.Debugf("Using catalog file: %s", *dataPath)

	engine, err := buildEngine(*dataPath)
	if err != nil {
		log.Fatalf("Failed to build suggestion index: %v", err)
	}

	// CLI is mainly for testing and dbg purposes.
	// Any new feature or scoring change should be tried here first.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(engine, appConfig.Server.MaxQuery)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(appConfig)
	srv.SetEngine(engine)
	sigHandler(srv, *dataPath)

	showStartupInfo(*dataPath, engine)

	if *ipcMode {
		ipc := server.NewIPCServer(srv.Engine, os.Stdin, os.Stdout)
		if err := ipc.Start(); err != nil {
			log.Fatalf("IPC error: %v", err)
		}
		return
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataPath string, engine *suggest.Engine) {
	pid := os.Getpid()

	println("============")
	println(" PlaceServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("catalog: ( %s )", dataPath)
	log.Infof("indexed names: %d", engine.IndexedNames())
	log.Info("status: ready")
}
