package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is one pending notification waiting to be flushed into the
// notifications table.
type Item struct {
	ID        string          `json:"id"`
	StaffID   string          `json:"staff_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
