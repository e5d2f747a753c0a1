// Package taskfield turns raw user-supplied task fields into canonical
// values. Validation is strict (create/update bodies reject unrecognized
// input); normalization is lenient (filter parameters fall back to the
// default label). All functions are pure.
package taskfield

import (
	"fmt"
	"strings"
)

// Canonical priority labels.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Canonical status labels.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "InProgress"
	StatusDone       = "Done"
)

// MaxTitleLength is the post-trim title limit.
const MaxTitleLength = 200

var canonicalPriorities = map[string]string{
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
}

var canonicalStatuses = map[string]string{
	"todo":       StatusTodo,
	"inprogress": StatusInProgress,
	"done":       StatusDone,
}

// Priorities returns the canonical priority labels.
func Priorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh}
}

// Statuses returns the canonical status labels.
func Statuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusDone}
}

// ValidateTitle trims the title and rejects empty or over-long input.
func ValidateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}
	if len([]rune(title)) > MaxTitleLength {
		return "", fmt.Errorf("title must be %d characters or less", MaxTitleLength)
	}
	return title, nil
}

// ValidatePriority maps the input to a canonical priority label,
// rejecting anything outside the allowed set.
func ValidatePriority(raw string) (string, error) {
	if p, ok := canonicalPriorities[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p, nil
	}
	return "", fmt.Errorf("priority must be %s", strings.Join(Priorities(), ", "))
}

// ValidateStatus maps the input to a canonical status label,
// rejecting anything outside the allowed set.
func ValidateStatus(raw string) (string, error) {
	if s, ok := canonicalStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status must be %s", strings.Join(Statuses(), ", "))
}

// NormalizePriority maps the input to a canonical priority label,
// defaulting to Medium for unrecognized input. Used on filter
// parameters, where invalid input must not hard-fail the request.
func NormalizePriority(raw string) string {
	if p, ok := canonicalPriorities[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p
	}
	return PriorityMedium
}

// NormalizeStatus maps the input to a canonical status label,
// defaulting to Todo for unrecognized input.
func NormalizeStatus(raw string) string {
	if s, ok := canonicalStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusTodo
}

// NormalizeDescription trims the description and converts
// empty or whitespace-only input to absent.
func NormalizeDescription(raw string) *string {
	desc := strings.TrimSpace(raw)
	if desc == "" {
		return nil
	}
	return &desc
}
