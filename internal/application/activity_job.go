package application

// ActivityJob is the message published to the activity queue and drained
// into the store by the activity worker.
type ActivityJob struct {
	UserEmail string `json:"user_email"`
	Message   string `json:"message"`
}
