package domain

import "time"

type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "new"
	InquiryStatusInProgress InquiryStatus = "in_progress"
	InquiryStatusResolved   InquiryStatus = "resolved"
)

type Inquiry struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Subject       string        `json:"subject"`
	Message       string        `json:"message"`
	Status        InquiryStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
