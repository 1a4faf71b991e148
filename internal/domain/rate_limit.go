package domain

import "time"

// RateLimitResult - результат проверки лимита для ключа
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}
