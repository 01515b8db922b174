package job

import (
	"encoding/json"
	"time"
)

// Job is a dead-lettered async task: the payload that failed plus the last
// error seen. Handler names the topic the payload was consumed from.
type Job struct {
	ID        string          `json:"id"`
	Handler   string          `json:"handler"`
	Payload   json.RawMessage `json:"payload"`
	Error     string          `json:"error"`
	Retries   int             `json:"retries"`
	CreatedAt time.Time       `json:"created_at"`
}
