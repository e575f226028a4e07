package models

import "time"

// Profile is a user's public profile. Email is its lookup key.
type Profile struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar,omitempty"`
	IsDriveConnected bool   `json:"isDriveConnected"`
	DriveEmail       string `json:"driveEmail,omitempty"`
}

// Message is a direct message between two users, addressed by email.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}

// Involves reports whether email is the sender or receiver of m.
func (m *Message) Involves(email string) bool {
	return m.SenderID == email || m.ReceiverID == email
}
