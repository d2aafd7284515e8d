package dto

import "time"

// SendNotificationRequest admin broadcast.
type SendNotificationRequest struct {
	Recipients    []string `json:"recipients" validate:"omitempty,dive,uuid"`
	Subject       string   `json:"subject" validate:"max=200"`
	Message       string   `json:"message" validate:"required"`
	SendEmail     bool     `json:"sendEmail"`
	SendSMS       bool     `json:"sendSMS"`
	RecipientType string   `json:"recipientType" validate:"omitempty,oneof=all customers selected"`
}

// SendResults delivery counters of a broadcast.
type SendResults struct {
	EmailsSent int      `json:"emailsSent"`
	SMSSent    int      `json:"smsSent"`
	Errors     []string `json:"errors"`
}

// SendNotificationResponse broadcast outcome.
type SendNotificationResponse struct {
	Success bool        `json:"success"`
	Results SendResults `json:"results"`
}

// UserSummaryResponse a possible recipient.
type UserSummaryResponse struct {
	UserResponse
	OrderCount int `json:"orderCount"`
}

// NotificationResponse one logged broadcast.
type NotificationResponse struct {
	ID             string    `json:"id"`
	Subject        string    `json:"subject"`
	Message        string    `json:"message"`
	RecipientType  string    `json:"recipientType"`
	RecipientCount int       `json:"recipientCount"`
	EmailsSent     int       `json:"emailsSent"`
	SMSSent        int       `json:"smsSent"`
	SentBy         string    `json:"sentBy"`
	SentByName     string    `json:"sentByName"`
	SentAt         time.Time `json:"sentAt"`
}

// NotificationOverviewResponse recipients and recent history for the admin panel.
type NotificationOverviewResponse struct {
	Users         []UserSummaryResponse  `json:"users"`
	Notifications []NotificationResponse `json:"notifications"`
}
