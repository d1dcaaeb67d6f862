// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package events publishes a RecommendationServed event after every
successful recommendation run.

# Backends

  - channel: an in-process Watermill gochannel. Subscriber() exposes it for
    in-process consumers and tests.
  - nats: Watermill NATS publishing over core NATS (JetStream disabled).
    With events.embedded set, cmd/server starts an EmbeddedServer and
    points the publisher at its ClientURL.

# Payload

Events are goccy/go-json encoded:

	{
	  "schema_version": 1,
	  "event_id": "7f0c...",
	  "user_id": 611,
	  "ratings_count": 3,
	  "items": [318, 858],
	  "top_prediction": {"item_id": 318, "title": "...", "genres": ["Crime"], "predicted_rating": 4.6},
	  "served_at": "2026-03-01T12:00:00Z"
	}

The Watermill message UUID is the event id and is also set as the
Nats-Msg-Id header.

# Usage

	pub, err := events.NewPublisher(cfg.Events, nil)
	if err != nil {
	    return err
	}
	defer pub.Close()

	engine.SetNotifier(events.NewNotifier(pub, cfg.Events.Topic, cfg.Events.PublishTimeout, logger))

Publish failures are logged at warn level and counted in
moviematch_events_published_total{result="failure"}; the recommendation
request still succeeds.
*/
package events
