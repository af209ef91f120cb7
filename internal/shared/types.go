package shared

// Task types handled by the worker
const (
	TypePaymentComplete = "payment:complete"
)

// Queue names, with the priority weights the worker gives them
const (
	QueuePayment = "payment"
	QueueDefault = "default"
)

var QueuePriorities = map[string]int{
	QueuePayment: 6,
	QueueDefault: 3,
}
