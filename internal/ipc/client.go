package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"

	"github.com/mithrel/hinglish/pkg/api"
)

// Request sends req to the daemon and waits for its Response.
func Request(ctx context.Context, path string, req api.Request) (api.Response, error) {
	var r api.Response
	d := &net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return r, err
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return r, err
	}
	dec := json.NewDecoder(bufio.NewReader(conn))
	if err := dec.Decode(&r); err != nil {
		if ctx.Err() != nil {
			return r, ctx.Err()
		}
		return r, err
	}
	return r, nil
}

// Ping reports whether a daemon answers on path.
func Ping(ctx context.Context, path string) bool {
	_, err := Request(ctx, path, api.Request{Action: api.ActionStatus})
	return err == nil
}
