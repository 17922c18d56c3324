// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package main

import "context"

// funcService adapts a plain context-taking function to suture.Service so
// background loops that don't already own a Serve method (the decision bus
// subscriber, the KV store closer) are supervised the same way as the HTTP
// server.
type funcService struct {
	name string
	fn   func(ctx context.Context) error
}

func newFuncService(name string, fn func(ctx context.Context) error) *funcService {
	return &funcService{name: name, fn: fn}
}

// Serve implements suture.Service.
func (s *funcService) Serve(ctx context.Context) error {
	return s.fn(ctx)
}

func (s *funcService) String() string {
	return s.name
}
