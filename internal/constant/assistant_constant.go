package constant

const (
	ChatMessageRoleUser = "user"
	ChatMessageRoleBot  = "bot"

	DefaultSessionTitle = "Unnamed session"
	SessionGreeting     = "Hi! Ask me about your documents, or search for a file to get started."

	// SessionTitleMaxLen bounds the title derived from the first user
	// message
	SessionTitleMaxLen = 50
)
