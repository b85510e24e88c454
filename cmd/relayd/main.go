// relayd is the real-time two-player chess game server (spec.md §1): it
// accepts websocket connections, pairs them by challenge id, and runs each
// game through the Rules Engine and Session state machine until
// termination.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relaychess/relaychess/pkg/appservice"
	"github.com/relaychess/relaychess/pkg/registry"
	"github.com/relaychess/relaychess/pkg/relayconfig"
	"github.com/relaychess/relaychess/pkg/transport"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

var (
	config     = flag.String("config", "", "Path to a relayconfig TOML file (defaults used if absent)")
	listenHost = flag.String("host", "", "Listen host, overriding the config file")
	listenPort = flag.Int("port", 0, "Listen port, overriding the config file")
	appURL     = flag.String("appservice", "", "External App Service GraphQL base URL, overriding the config file")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: relayd [options]

relayd is a real-time two-player chess game server.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	settings, err := relayconfig.Load(*config)
	if err != nil {
		logw.Exitf(ctx, "Failed to load config: %v", err)
	}
	if *listenHost != "" {
		settings.Listen.Host = *listenHost
	}
	if *listenPort != 0 {
		settings.Listen.Port = *listenPort
	}
	if *appURL != "" {
		settings.AppService.BaseURL = *appURL
	}

	logw.Infof(ctx, "relayd %v listening on %v, app service %v", version, settings.Listen.Addr(), settings.AppService.BaseURL)

	retryBaseDelay := time.Duration(settings.AppService.RetryBaseDelaySecs * float64(time.Second))
	deps := transport.Deps{
		Registry:   registry.New(),
		AppService: appservice.New(settings.AppService.BaseURL, appservice.WithRetry(settings.AppService.RetryAttempts, retryBaseDelay)),
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/game", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logw.Warningf(ctx, "relayd: upgrade failed: %v", err)
			return
		}
		go transport.NewHandler(deps, conn).Run(ctx)
	})

	if err := http.ListenAndServe(settings.Listen.Addr(), mux); err != nil {
		logw.Exitf(ctx, "relayd: serve failed: %v", err)
	}
}
