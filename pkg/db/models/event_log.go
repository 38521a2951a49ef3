package models

import "time"

// EventLog is an append-only operational log row written by the async
// event recorder.
type EventLog struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Message   string    `gorm:"column:message;not null"`
	Type      string    `gorm:"column:type;not null;default:info"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the legacy table name.
func (EventLog) TableName() string {
	return "logs"
}
