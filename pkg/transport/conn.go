// Package transport is the Connection Handler (spec.md §4.6): one goroutine
// per accepted websocket connection, reading and writing JSON lines and
// driving a bound Session. ReadSocketLines/WriteSocketLines generalize the
// teacher's pkg/engine.ReadStdinLines/WriteStdoutLines from bufio.Scanner
// over stdin to *websocket.Conn, producing/consuming the same chan string
// shape so pkg/protocol's JSON encode/decode sits on top exactly where
// uci's line parsing sits in the teacher.
package transport

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
)

// ReadSocketLines reads text frames from conn into a chan. Async; the chan
// closes when the connection errors or closes.
func ReadSocketLines(ctx context.Context, conn *websocket.Conn) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				logw.Debugf(ctx, "transport: read: %v", err)
				return
			}
			logw.Debugf(ctx, "<< %v", string(data))
			ret <- string(data)
		}
	}()
	return ret
}

// WriteSocketLines writes each line from in to conn as a text frame, until
// in closes or a write fails.
func WriteSocketLines(ctx context.Context, conn *websocket.Conn, in <-chan string) {
	for line := range in {
		logw.Debugf(ctx, ">> %v", line)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			logw.Debugf(ctx, "transport: write: %v", err)
			return
		}
	}
}
