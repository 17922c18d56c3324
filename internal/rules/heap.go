// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package rules

import (
	"sync"

	"github.com/northlane-labs/notifyguard/internal/models"
)

// ruleEntry is a rule's position in the priority heap.
type ruleEntry struct {
	rule  models.Rule
	index int // index in the heap array, used for O(log n) updates
}

// priorityHeap is a binary max-heap of rules ordered by Priority
// (descending). It gives AddRule O(log n) insertion while still letting
// callers walk rules in descending-priority order via Sorted, which
// flattens the heap lazily and caches the result until the next mutation.
//
// This mirrors the evaluation order spec.md §4.4 requires: rules are
// always considered highest-priority-first, regardless of insertion
// order.
type priorityHeap struct {
	mu    sync.RWMutex
	heap  []*ruleEntry
	byKey map[string]*ruleEntry

	sorted   []models.Rule
	sortedOK bool
}

func newPriorityHeap() *priorityHeap {
	return &priorityHeap{
		heap:  make([]*ruleEntry, 0),
		byKey: make(map[string]*ruleEntry),
	}
}

// Push inserts or updates a rule by name.
func (h *priorityHeap) Push(rule models.Rule) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sortedOK = false

	if existing, ok := h.byKey[rule.Name]; ok {
		existing.rule = rule
		h.fix(existing.index)
		return
	}

	entry := &ruleEntry{rule: rule, index: len(h.heap)}
	h.heap = append(h.heap, entry)
	h.byKey[rule.Name] = entry
	h.bubbleUp(entry.index)
}

// Remove deletes a rule by name. Returns false if it wasn't present.
func (h *priorityHeap) Remove(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.byKey[name]
	if !ok {
		return false
	}
	h.sortedOK = false
	h.removeAt(entry.index)
	return true
}

// Len returns the number of rules stored.
func (h *priorityHeap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.heap)
}

// Sorted returns all rules in descending-priority order. The flattened
// slice is cached until the next Push/Remove invalidates it.
func (h *priorityHeap) Sorted() []models.Rule {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sortedOK {
		out := make([]models.Rule, len(h.sorted))
		copy(out, h.sorted)
		return out
	}

	out := make([]models.Rule, len(h.heap))
	for i, e := range h.heap {
		out[i] = e.rule
	}
	// Simple insertion sort: rule counts are small (operator-authored
	// policy, not per-event data), so O(n^2) here is not a concern and
	// keeps this free of an extra sort.Interface adapter.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority > out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	h.sorted = out
	h.sortedOK = true

	ret := make([]models.Rule, len(out))
	copy(ret, out)
	return ret
}

// fix restores heap order after an in-place priority change.
func (h *priorityHeap) fix(i int) {
	if h.bubbleUp(i) {
		return
	}
	h.bubbleDown(i)
}

// bubbleUp moves the element at index i toward the root while its
// priority exceeds its parent's. Returns true if it moved.
func (h *priorityHeap) bubbleUp(i int) bool {
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if h.heap[i].rule.Priority <= h.heap[parent].rule.Priority {
			break
		}
		h.swap(i, parent)
		i = parent
		moved = true
	}
	return moved
}

// bubbleDown moves the element at index i toward the leaves while a
// child has higher priority.
func (h *priorityHeap) bubbleDown(i int) {
	n := len(h.heap)
	for {
		largest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.heap[left].rule.Priority > h.heap[largest].rule.Priority {
			largest = left
		}
		if right < n && h.heap[right].rule.Priority > h.heap[largest].rule.Priority {
			largest = right
		}
		if largest == i {
			break
		}
		h.swap(i, largest)
		i = largest
	}
}

// removeAt removes the heap entry at index i, keeping the heap property.
func (h *priorityHeap) removeAt(i int) {
	n := len(h.heap) - 1
	entry := h.heap[i]
	delete(h.byKey, entry.rule.Name)

	if i == n {
		h.heap = h.heap[:n]
		return
	}

	h.heap[i] = h.heap[n]
	h.heap[i].index = i
	h.heap = h.heap[:n]
	h.fix(i)
}

// swap exchanges the entries at indices i and j.
func (h *priorityHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.heap[i].index = i
	h.heap[j].index = j
}
