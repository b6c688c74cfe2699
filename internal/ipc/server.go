package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates a live session owner already holds the socket.
var ErrAlreadyRunning = errors.New("another voxclip session is already running")

// Handler processes one control request.
type Handler interface {
	Handle(context.Context, Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(context.Context, Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Acquire binds the control socket, taking over a stale socket left behind by
// a crashed session. A socket with a responsive owner yields ErrAlreadyRunning.
func Acquire(ctx context.Context, path string, probeTimeout time.Duration) (net.Listener, error) {
	listener, err := net.Listen("unix", path)
	if err == nil {
		os.Chmod(path, 0o600)
		return listener, nil
	}
	if !isAddrInUse(err) {
		return nil, fmt.Errorf("listen unix %s: %w", path, err)
	}

	alive, probeErr := Probe(ctx, path, probeTimeout)
	if probeErr != nil {
		return nil, fmt.Errorf("probe existing socket %s: %w", path, probeErr)
	}
	if alive {
		return nil, ErrAlreadyRunning
	}

	// Stale socket: the previous owner died without unlinking it.
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket %s: %w", path, err)
	}

	listener, err = net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen unix %s: %w", path, err)
	}
	os.Chmod(path, 0o600)
	return listener, nil
}

// Serve accepts clients until the context is cancelled or the listener closes.
// Each connection carries exactly one request/response exchange.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept control connection: %w", err)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer c.Close()
			serveConn(ctx, c, handler)
		}(conn)
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler Handler) {
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		json.NewEncoder(conn).Encode(Response{Error: fmt.Sprintf("read request: %v", err)})
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		json.NewEncoder(conn).Encode(Response{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	json.NewEncoder(conn).Encode(handler.Handle(ctx, req))
}

func isAddrInUse(err error) bool {
	return err != nil && strings.Contains(err.Error(), "address already in use")
}
