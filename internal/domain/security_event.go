package domain

import (
	"time"

	"github.com/google/uuid"
)

// StreamSecurityEvents - Redis Stream с событиями безопасности
const StreamSecurityEvents = "stream:security:events"

type SecurityEventType string

const (
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventSearchFailed       SecurityEventType = "SEARCH_ERROR"
	EventInvalidSearchInput SecurityEventType = "INVALID_SEARCH_INPUT"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SecurityEvent - событие аудита, публикуется fire-and-forget
type SecurityEvent struct {
	ID         uuid.UUID              `json:"id" db:"id"`
	Type       SecurityEventType      `json:"type" db:"type"`
	Severity   Severity               `json:"severity" db:"severity"`
	IP         string                 `json:"ip" db:"ip"`
	UserAgent  string                 `json:"userAgent" db:"user_agent"`
	Path       string                 `json:"path" db:"path"`
	Details    map[string]interface{} `json:"details,omitempty" db:"-"`
	OccurredAt time.Time              `json:"occurredAt" db:"occurred_at"`
}

// NewSecurityEvent заполняет ID и время
func NewSecurityEvent(eventType SecurityEventType, severity Severity) SecurityEvent {
	return SecurityEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Severity:   severity,
		OccurredAt: time.Now().UTC(),
	}
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
