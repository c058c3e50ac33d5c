package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Message is the frame pushed over a websocket to the dashboard.
type Message struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
	Firm      string         `json:"firm,omitempty"`
	Target    string         `json:"target,omitempty"`
}

const (
	MessageTypeStageCompleted = "stage_completed"
	MessageTypeStatus         = "status"
)

// Notification is the persisted copy of a pushed event so users who were
// offline still see it in the bell menu.
type Notification struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmNameMatch string         `json:"firm_name_match" gorm:"index"`
	Title         string         `json:"title" gorm:"not null"`
	Body          string         `json:"body"`
	Payload       datatypes.JSON `json:"payload" gorm:"default:'{}'"`
	ActorName     string         `json:"actor_name"`
	ReadAt        *time.Time     `json:"read_at"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
}
