package domain

// Chat roles as they appear in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one past turn of the conversation. The pipeline treats history
// as read-only input owned by the calling session.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
