// Package ipc relays api.Request messages to the daemon over a Unix socket,
// one JSON request and one JSON reply per connection.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/hinglish/pkg/api"
)

// MaxMessageSize bounds one encoded request.
const MaxMessageSize = 1 << 20

// Handler answers one request.
type Handler func(ctx context.Context, req api.Request) api.Response

// Serve starts a Unix domain socket server at path and handles one JSON
// Request per connection, replying with a JSON Response. It returns nil
// once ctx is cancelled and in-flight connections have been answered.
func Serve(ctx context.Context, path string, handle Handler, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	// Remove stale socket if present
	_ = os.Remove(path)
	l, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	_ = os.Chmod(path, 0o600)

	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		c, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				_ = os.Remove(path)
				return nil
			}
			log.Error("ipc accept", zap.Error(err))
			return err
		}
		wg.Add(1)
		go func(conn net.Conn) {
			defer wg.Done()
			defer conn.Close()
			serveConn(ctx, conn, handle, log)
		}(c)
	}
}

func serveConn(ctx context.Context, conn net.Conn, handle Handler, log *zap.Logger) {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	dec := json.NewDecoder(bufio.NewReader(io.LimitReader(conn, MaxMessageSize)))
	var req api.Request
	if err := dec.Decode(&req); err != nil {
		log.Debug("ipc bad request", zap.Error(err))
		_ = json.NewEncoder(conn).Encode(api.ErrorResult("Bad request."))
		return
	}
	_ = conn.SetReadDeadline(time.Time{})
	resp := handle(ctx, req)
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		log.Debug("ipc reply", zap.Error(err))
	}
}
