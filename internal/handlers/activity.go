package handlers

import (
	"time"

	"homehub/internal/realtime"
)

// announceActivity nudges the family room's activity indicator after new
// content lands. The payload names the feature, never the content.
func announceActivity(hub *realtime.Hub, familyID int64, feature string) {
	hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventNewActivity, map[string]interface{}{
		"feature":   feature,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
