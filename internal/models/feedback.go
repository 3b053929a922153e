package models

// Feedback is a message left through the contact form.
type Feedback struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt int64
}
