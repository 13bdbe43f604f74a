package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Outcomes persisted on audit records.
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"

	// Default title until the first question names the session.
	DefaultSessionTitle = "New conversation"

	// Topic for asynchronous audit persistence on the in-process bus.
	PersistAuditTopicName = "PERSIST_AUDIT_TRAIL"

	// Default audit retention window in days when AUDIT_RETENTION_DAYS
	// is unset.
	AuditRetentionDays = 365
)
