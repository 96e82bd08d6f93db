package amqp

import (
	"encoding/json"
	"time"
)

// WeekReindexMessage asks the worker to re-check one expense's persisted week
// identifier against its date. Only the ID travels: the worker reads the
// current row from the database, so a stale message can never clobber a newer
// date with an older week.
type WeekReindexMessage struct {
	ExpenseID int64     `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewWeekReindexMessage(expenseID int64) *WeekReindexMessage {
	return &WeekReindexMessage{
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func (m *WeekReindexMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func WeekReindexMessageFromJSON(data []byte) (*WeekReindexMessage, error) {
	var msg WeekReindexMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
