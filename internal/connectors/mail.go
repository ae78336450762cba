package connectors

// MaxMessages caps the messages returned by one mail query.
const MaxMessages = 50

// DefaultMessages applies when a mail query gives no count.
const DefaultMessages = 10

// MailLimit caps a requested message count to [1, MaxMessages].
func MailLimit(n int) int {
	if n <= 0 {
		return DefaultMessages
	}
	return min(n, MaxMessages)
}
