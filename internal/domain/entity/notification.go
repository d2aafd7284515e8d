package entity

import "time"

// Recipient groups accepted by an admin broadcast.
const (
	RecipientsAll       = "all"
	RecipientsCustomers = "customers"
	RecipientsSelected  = "selected"
)

// Notification is the audit row of an admin broadcast.
type Notification struct {
	ID             string
	Subject        string
	Message        string
	RecipientType  string
	RecipientCount int
	EmailsSent     int
	SMSSent        int
	SentBy         string
	SentByName     string // filled on reads
	SentAt         time.Time
}
