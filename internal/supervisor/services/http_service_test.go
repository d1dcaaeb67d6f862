// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/moviematch/internal/logging"
)

var _ suture.Service = (*HTTPServerService)(nil)

// fakeHTTPServer blocks in ListenAndServe until Shutdown or Close.
type fakeHTTPServer struct {
	listenErr   error
	shutdownErr error

	started  chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}

	shutdowns atomic.Int32
	closes    atomic.Int32
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{
		started: make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	select {
	case f.started <- struct{}{}:
	default:
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	if f.shutdownErr != nil {
		return f.shutdownErr
	}
	f.stopOnce.Do(func() { close(f.stopped) })
	return nil
}

func (f *fakeHTTPServer) Close() error {
	f.closes.Add(1)
	f.stopOnce.Do(func() { close(f.stopped) })
	return nil
}

func serveAsync(ctx context.Context, svc suture.Service) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	return errCh
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, defaultHTTPShutdownTimeout},
		{-time.Second, defaultHTTPShutdownTimeout},
		{3 * time.Second, 3 * time.Second},
	}
	for _, tt := range tests {
		svc := NewHTTPServerService(newFakeHTTPServer(), ":0", tt.in, logging.NewTestLogger(io.Discard))
		if svc.shutdownTimeout != tt.want {
			t.Errorf("NewHTTPServerService(%v).shutdownTimeout = %v, want %v", tt.in, svc.shutdownTimeout, tt.want)
		}
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		server := newFakeHTTPServer()
		svc := NewHTTPServerService(server, ":0", time.Second, logging.NewTestLogger(io.Discard))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, svc)
		<-server.started
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
		if server.shutdowns.Load() != 1 || server.closes.Load() != 0 {
			t.Errorf("shutdowns=%d closes=%d, want 1 and 0", server.shutdowns.Load(), server.closes.Load())
		}
	})

	t.Run("listen failure", func(t *testing.T) {
		bindErr := errors.New("bind: address already in use")
		server := newFakeHTTPServer()
		server.listenErr = bindErr
		svc := NewHTTPServerService(server, ":0", time.Second, logging.NewTestLogger(io.Discard))

		if err := svc.Serve(context.Background()); !errors.Is(err, bindErr) {
			t.Errorf("Serve() = %v, want %v", err, bindErr)
		}
	})

	t.Run("failed shutdown falls back to close", func(t *testing.T) {
		drainErr := errors.New("context deadline exceeded")
		server := newFakeHTTPServer()
		server.shutdownErr = drainErr
		svc := NewHTTPServerService(server, ":0", time.Second, logging.NewTestLogger(io.Discard))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, svc)
		<-server.started
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, drainErr) {
				t.Errorf("Serve() = %v, want %v", err, drainErr)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if server.closes.Load() != 1 {
			t.Errorf("closes = %d, want 1", server.closes.Load())
		}
	})
}

func TestHTTPServerService_RealServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	server := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(server, addr, time.Second, logging.NewTestLogger(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never became reachable: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestHTTPServerService_UnderSupervisor(t *testing.T) {
	server := newFakeHTTPServer()
	svc := NewHTTPServerService(server, ":0", time.Second, logging.NewTestLogger(io.Discard))

	sup := suture.New("test-api", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	select {
	case <-server.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}

	cancel()
	<-errCh

	if server.shutdowns.Load() < 1 {
		t.Error("Shutdown was not called")
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
}
