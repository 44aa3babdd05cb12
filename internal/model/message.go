package model

import "time"

type MessageCategory string

const (
	CategoryGeneral     MessageCategory = "general"
	CategorySupport     MessageCategory = "support"
	CategorySales       MessageCategory = "sales"
	CategoryPartnership MessageCategory = "partnership"
	CategoryComplaint   MessageCategory = "complaint"
	CategoryOther       MessageCategory = "other"
)

type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityMedium MessagePriority = "medium"
	PriorityHigh   MessagePriority = "high"
)

// Message is a contact-form submission triaged by admins.
// ReadAt and RepliedAt are first-transition timestamps: set once when the
// companion flag first becomes true, never cleared afterwards.
type Message struct {
	ID       uint64          `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"type:varchar(100);not null" json:"name"`
	Email    string          `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone    string          `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Subject  string          `gorm:"type:varchar(200);not null" json:"subject"`
	Body     string          `gorm:"column:message;type:text;not null" json:"message"`
	Category MessageCategory `gorm:"type:varchar(32);default:'general';index" json:"category"`
	Priority MessagePriority `gorm:"type:varchar(16);default:'medium';index" json:"priority"`

	IsRead    bool       `gorm:"not null;default:false;index" json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	Replied   bool       `gorm:"not null;default:false;index" json:"replied"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`

	Notes []MessageNote `gorm:"foreignKey:MessageID" json:"notes"`

	// Captured from the request at creation, immutable thereafter.
	IPAddress string `gorm:"type:varchar(45)" json:"ipAddress,omitempty"`
	UserAgent string `gorm:"type:varchar(512)" json:"userAgent,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Message) TableName() string { return "messages" }

// NoteAuthor is the minimal projection of the admin who wrote a note.
// Only the email is exposed through the API.
type NoteAuthor struct {
	ID    string `gorm:"type:varchar(64)" json:"-"`
	Email string `gorm:"type:varchar(255)" json:"email"`
}

// MessageNote is an admin annotation on a message, append-only via the API.
type MessageNote struct {
	ID        uint64     `gorm:"primaryKey" json:"-"`
	MessageID uint64     `gorm:"index;not null" json:"-"`
	Content   string     `gorm:"type:varchar(500);not null" json:"content"`
	AddedBy   NoteAuthor `gorm:"embedded;embeddedPrefix:added_by_" json:"addedBy"`
	AddedAt   time.Time  `gorm:"not null" json:"addedAt"`
}

func (MessageNote) TableName() string { return "message_notes" }
