// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/northlane-labs/notifyguard/internal/models"
)

func marshalDecision(decision *models.Decision) ([]byte, error) {
	payload, err := json.Marshal(decision)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decision: %w", err)
	}
	return payload, nil
}

// UnmarshalDecision recovers the Decision carried by msg.Payload.
func UnmarshalDecision(msg *message.Message) (*models.Decision, error) {
	var decision models.Decision
	if err := json.Unmarshal(msg.Payload, &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision: %w", err)
	}
	return &decision, nil
}
