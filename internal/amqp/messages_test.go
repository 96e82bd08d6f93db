package amqp

import "testing"

func TestWeekReindexMessageRoundTrip(t *testing.T) {
	msg := NewWeekReindexMessage(42)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := WeekReindexMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ExpenseID != 42 {
		t.Fatalf("expense id = %d, want 42", got.ExpenseID)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp lost in transit")
	}
}

func TestWeekReindexMessageRejectsGarbage(t *testing.T) {
	if _, err := WeekReindexMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
