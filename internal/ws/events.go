package ws

import "time"

const (
	EventLevelUp = "level_up"
)

type Event struct {
	Type      string    `json:"type"`
	PlayerID  int64     `json:"player_id"`
	Level     int       `json:"level,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
