// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/moviematch/internal/config"
)

const testTopic = "moviematch.recommendations"

func newChannelPublisher(t *testing.T) *Publisher {
	t.Helper()
	p, err := NewPublisher(config.EventsConfig{Backend: config.EventsBackendChannel}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	t.Cleanup(func() { p.Close() }) //nolint:errcheck
	return p
}

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestNewPublisher_Backends(t *testing.T) {
	tests := []struct {
		backend     string
		wantBackend string
		wantSub     bool
		wantErr     bool
	}{
		{config.EventsBackendChannel, config.EventsBackendChannel, true, false},
		{"", config.EventsBackendChannel, true, false},
		{"kafka", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			p, err := NewPublisher(config.EventsConfig{Backend: tt.backend}, watermill.NopLogger{})
			if tt.wantErr {
				if err == nil {
					t.Error("NewPublisher() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPublisher() error = %v", err)
			}
			defer p.Close() //nolint:errcheck

			if p.Backend() != tt.wantBackend {
				t.Errorf("Backend() = %q, want %q", p.Backend(), tt.wantBackend)
			}
			if (p.Subscriber() != nil) != tt.wantSub {
				t.Errorf("Subscriber() present = %v, want %v", p.Subscriber() != nil, tt.wantSub)
			}
		})
	}
}

func TestPublisher_PublishEvent_Channel(t *testing.T) {
	p := newChannelPublisher(t)
	ctx := context.Background()

	msgs, err := p.Subscriber().Subscribe(ctx, testTopic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	event := NewRecommendationServed(sampleResult())
	if err := p.PublishEvent(ctx, testTopic, event); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	msg := receive(t, msgs)
	if msg.UUID != event.EventID {
		t.Errorf("UUID = %q, want %q", msg.UUID, event.EventID)
	}
	if got := msg.Metadata.Get(natsgo.MsgIdHdr); got != event.EventID {
		t.Errorf("Nats-Msg-Id = %q, want %q", got, event.EventID)
	}
	if got := msg.Metadata.Get("user_id"); got != "611" {
		t.Errorf("user_id metadata = %q, want 611", got)
	}

	decoded, err := Unmarshal(msg.Payload)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.UserID != event.UserID || len(decoded.Items) != len(event.Items) {
		t.Errorf("decoded = %+v, want %+v", decoded, event)
	}
}

func TestPublisher_PublishInvalidEvent(t *testing.T) {
	p := newChannelPublisher(t)

	event := NewRecommendationServed(sampleResult())
	event.EventID = ""
	if err := p.PublishEvent(context.Background(), testTopic, event); err == nil {
		t.Error("PublishEvent() of invalid event should fail")
	}
}

func TestPublisher_Closed(t *testing.T) {
	p, err := NewPublisher(config.EventsConfig{Backend: config.EventsBackendChannel}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	err = p.PublishEvent(context.Background(), testTopic, NewRecommendationServed(sampleResult()))
	if !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("PublishEvent() after Close = %v, want ErrPublisherClosed", err)
	}
}

func TestPublisher_NATS_Embedded(t *testing.T) {
	srv, err := NewEmbeddedServer("127.0.0.1", -1)
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	defer srv.Shutdown(context.Background()) //nolint:errcheck

	if !srv.IsRunning() {
		t.Fatal("IsRunning() = false after start")
	}

	nc, err := natsgo.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("nats Connect() error = %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync(testTopic)
	if err != nil {
		t.Fatalf("SubscribeSync() error = %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	p, err := NewPublisher(config.EventsConfig{
		Backend: config.EventsBackendNATS,
		NATSURL: srv.ClientURL(),
	}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	defer p.Close() //nolint:errcheck

	if p.Subscriber() != nil {
		t.Error("Subscriber() should be nil for nats backend")
	}

	event := NewRecommendationServed(sampleResult())
	if err := p.PublishEvent(context.Background(), testTopic, event); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg() error = %v", err)
	}
	decoded, err := Unmarshal(msg.Data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.EventID != event.EventID {
		t.Errorf("EventID = %q, want %q", decoded.EventID, event.EventID)
	}
}

func TestEmbeddedServer_Shutdown(t *testing.T) {
	srv, err := NewEmbeddedServer("127.0.0.1", -1)
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	if srv.ClientURL() == "" {
		t.Error("ClientURL() is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after Shutdown")
	}
}
