package models

import (
	"fmt"
	"time"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case RequestPending, RequestApproved, RequestRejected:
		return RequestStatus(s), nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// OrganizerRequest is a user's application for organizer privileges.
// A user holds at most one request; re-applying resets it to PENDING.
type OrganizerRequest struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	RequestedOrgName string        `json:"requested_org_name"`
	Status           RequestStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`

	// UserEmail is populated by admin listings.
	UserEmail string `json:"user_email,omitempty"`
}
