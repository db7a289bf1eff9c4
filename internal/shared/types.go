package shared

// Task type names for the asynq queue.
const (
	TypeOrderChanged = "order:changed"
)

// Queue names.
const (
	QueueDefault = "default"
)

// Order change actions carried in the order:changed payload.
const (
	OrderActionCreated   = "created"
	OrderActionUpdated   = "updated"
	OrderActionCancelled = "cancelled"
	OrderActionDeleted   = "deleted"
)
