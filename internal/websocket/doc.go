// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

/*
Package websocket provides the live decision feed at GET /ws/decisions.

It implements a hub-client architecture on top of gorilla/websocket: every
Decision the prioritizer records is forwarded from the in-process event bus
(internal/events) to all connected operator dashboards.

Key Components:

  - Hub: central message broker that manages client connections and broadcasts
  - Client: a single WebSocket connection with read/write goroutines
  - DecisionSubscriber: bridges internal/events.Bus to Hub.BroadcastDecision
  - Message: typed message envelope for the handful of message types below

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: reads from the WebSocket, handles pings
  - writePump: writes to the WebSocket, sends pongs

Message Types:

  - decision_recorded: a Decision was just recorded by the prioritizer
  - stats_update: aggregate decision stats changed
  - ping / pong: keepalive

Usage Example - Server:

	import (
	    "github.com/northlane-labs/notifyguard/internal/events"
	    "github.com/northlane-labs/notifyguard/internal/websocket"
	)

	hub := websocket.NewHub()
	go hub.Run()

	bus := events.New(false)
	sub := websocket.NewDecisionSubscriber(hub)
	go sub.Run(ctx, bus)

	http.HandleFunc("/ws/decisions", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, w, r)
	})

Usage Example - Client (JavaScript):

	const ws = new WebSocket('ws://localhost:8080/ws/decisions');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);
	    if (msg.type === 'decision_recorded') {
	        console.log(`${msg.data.action}: ${msg.data.reason}`);
	    }
	};

Performance Characteristics:

  - Broadcast latency: <10ms for typical payloads
  - Ping interval: 30 seconds (keeps connection alive)
  - Write deadline: 10 seconds per message
  - Message size limit: 512KB (configurable)

Connection Lifecycle:

1. Client connects via HTTP upgrade
2. Hub registers client
3. Client starts read/write goroutines
4. Hub broadcasts messages to all clients
5. Client disconnects (network error or explicit close)
6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Error Handling:

The package handles:
  - Connection upgrade failures: returns HTTP 400
  - Read errors: closes connection gracefully
  - Write errors: removes client from hub
  - Ping/pong timeout: detects dead connections (60s timeout)

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 30 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 512 KB (max message size)

See Also:

  - github.com/gorilla/websocket: underlying WebSocket library
  - internal/events: the decision bus this package subscribes to
  - internal/api: WebSocket endpoint handler
*/
package websocket
