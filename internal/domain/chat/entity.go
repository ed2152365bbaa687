package chat

import "time"

// SenderRole distinguishes who authored a message. System messages are
// posted by the platform on booking status changes.
type SenderRole string

const (
	SenderCustomer SenderRole = "customer"
	SenderArtist   SenderRole = "artist"
	SenderSystem   SenderRole = "system"
)

// Conversation is the single thread between a customer and an artist.
// It is keyed by the (customer, artist) pair, created lazily on the first
// booking or message, and outlives any individual booking. BookingID tracks
// the most recent booking that touched the thread.
type Conversation struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	CustomerID     int64      `gorm:"column:customer_id;uniqueIndex:idx_conversations_pair" json:"customer_id"`
	ArtistID       int64      `gorm:"column:artist_id;uniqueIndex:idx_conversations_pair" json:"artist_id"`
	BookingID      *int64     `gorm:"column:booking_id" json:"booking_id,omitempty"`
	CustomerUnread int        `gorm:"column:customer_unread;default:0" json:"customer_unread"`
	ArtistUnread   int        `gorm:"column:artist_unread;default:0" json:"artist_unread"`
	LastMessageAt  *time.Time `gorm:"column:last_message_at" json:"last_message_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Conversation) TableName() string { return "conversations" }

// Participants returns both sides of the conversation
func (c *Conversation) Participants() []int64 {
	return []int64{c.CustomerID, c.ArtistID}
}

// Counterpart returns the other side of the conversation from userID
func (c *Conversation) Counterpart(userID int64) int64 {
	if userID == c.CustomerID {
		return c.ArtistID
	}
	return c.CustomerID
}

// Message is a single chat message. SenderID is nil for system messages.
type Message struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string     `gorm:"column:conversation_id;index:idx_messages_conversation" json:"conversation_id"`
	SenderRole     SenderRole `gorm:"column:sender_role" json:"sender_role"`
	SenderID       *int64     `gorm:"column:sender_id" json:"sender_id,omitempty"`
	Content        string     `gorm:"column:content" json:"content"`
	BookingID      *int64     `gorm:"column:booking_id" json:"booking_id,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
