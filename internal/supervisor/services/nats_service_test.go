// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/moviematch/internal/events"
	"github.com/tomtom215/moviematch/internal/logging"
)

type fakeBroker struct {
	running   atomic.Bool
	shutdowns atomic.Int32
}

func newFakeBroker() *fakeBroker {
	b := &fakeBroker{}
	b.running.Store(true)
	return b
}

func (b *fakeBroker) ClientURL() string { return "nats://127.0.0.1:14222" }
func (b *fakeBroker) IsRunning() bool   { return b.running.Load() }

func (b *fakeBroker) Shutdown(context.Context) error {
	b.shutdowns.Add(1)
	b.running.Store(false)
	return nil
}

func fastNATSConfig() EmbeddedNATSConfig {
	return EmbeddedNATSConfig{HealthInterval: 5 * time.Millisecond, ShutdownTimeout: time.Second}
}

func TestEmbeddedNATSService_ShutdownOnCancel(t *testing.T) {
	broker := newFakeBroker()
	svc := NewEmbeddedNATSService(broker, nil, fastNATSConfig(), logging.NewTestLogger(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if broker.shutdowns.Load() != 1 {
		t.Errorf("shutdowns = %d, want 1", broker.shutdowns.Load())
	}
}

func TestEmbeddedNATSService_CrashAndRestart(t *testing.T) {
	first := newFakeBroker()
	second := newFakeBroker()
	var starts atomic.Int32
	factory := func() (Broker, error) {
		starts.Add(1)
		return second, nil
	}

	svc := NewEmbeddedNATSService(first, factory, fastNATSConfig(), logging.NewTestLogger(io.Discard))

	first.running.Store(false)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Initial broker already dead: Serve starts a fresh one.
	errCh := serveAsync(ctx, svc)
	time.Sleep(20 * time.Millisecond)
	second.running.Store(false)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrBrokerStopped) {
			t.Errorf("Serve() = %v, want ErrBrokerStopped", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not notice the broker stopped")
	}
	if starts.Load() != 1 {
		t.Errorf("factory starts = %d, want 1", starts.Load())
	}
}

func TestEmbeddedNATSService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		start   BrokerFactory
		wantErr error
	}{
		{"no broker and no factory", nil, ErrBrokerStopped},
		{"factory fails", func() (Broker, error) { return nil, errPortInUse }, errPortInUse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEmbeddedNATSService(nil, tt.start, fastNATSConfig(), logging.NewTestLogger(io.Discard))
			if err := svc.Serve(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("Serve() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

var errPortInUse = errors.New("address already in use")

func TestEmbeddedNATSService_RealServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS server in short mode")
	}

	factory := func() (Broker, error) {
		srv, err := events.NewEmbeddedServer("127.0.0.1", -1)
		if err != nil {
			return nil, err
		}
		return srv, nil
	}
	svc := NewEmbeddedNATSService(nil, factory, fastNATSConfig(), logging.NewTestLogger(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)
	defer func() {
		cancel()
		<-errCh
	}()

	var url string
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if u := svc.ClientURL(); u != "" {
			url = u
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if url == "" {
		t.Fatal("broker never started")
	}

	nc, err := natsgo.Connect(url)
	if err != nil {
		t.Fatalf("connect to %s: %v", url, err)
	}
	nc.Close()
}
