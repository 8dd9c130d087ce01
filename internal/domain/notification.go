package domain

import "time"

// Notification is an outbound message intent. Target is either a player id
// (private delivery) or a room id (broadcast); the transport layer owns the
// actual delivery.
type Notification struct {
	Target    string    `json:"target"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifyRoom creates a broadcast intent for everyone in a room
func NotifyRoom(roomID, text string) Notification {
	return Notification{Target: roomID, Text: text, Timestamp: time.Now()}
}

// NotifyPlayer creates a private intent for a single player
func NotifyPlayer(playerID, text string) Notification {
	return Notification{Target: playerID, Text: text, Timestamp: time.Now()}
}
