package model

type ConversationStatus string

const (
	ConversationActive    ConversationStatus = "active"
	ConversationNeedsHelp ConversationStatus = "needs_help"
	ConversationResolved  ConversationStatus = "resolved"
)

type MessageRole string

const (
	RoleUser    MessageRole = "user"
	RoleAI      MessageRole = "ai"
	RoleTeacher MessageRole = "teacher"
)

// AIConversation is one tutoring thread scoped to (student, lesson, section).
// needs_help is sticky: only a teacher resolving the thread leaves it.
// swagger:model AIConversation
type AIConversation struct {
	UUIDBase
	UserID      uint               `gorm:"index:idx_conv_scope;type:bigint unsigned" json:"userId"`
	LessonID    string             `gorm:"index:idx_conv_scope;size:100" json:"lessonId"`
	Section     string             `gorm:"index:idx_conv_scope;size:100" json:"section"`
	LessonTitle string             `gorm:"size:200" json:"lessonTitle"`
	Status      ConversationStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	Messages []AIMessage `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (AIConversation) TableName() string {
	return "ai_conversations"
}

// AIMessage is one turn in a conversation. Append-only.
// swagger:model AIMessage
type AIMessage struct {
	BaseModel
	ConversationID string      `gorm:"size:36;index" json:"conversationId"`
	Role           MessageRole `gorm:"type:varchar(10);not null" json:"role"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	CodeSnapshot   string      `gorm:"type:text" json:"codeSnapshot,omitempty"`
	FlagForTeacher bool        `gorm:"default:false" json:"flagForTeacher"`
}

func (AIMessage) TableName() string {
	return "ai_messages"
}
