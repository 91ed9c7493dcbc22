package model

import "time"

// ProfileStatus is the lifecycle state of a volunteer record. The server owns
// status transitions; clients only request them.
type ProfileStatus string

const (
	StatusPending   ProfileStatus = "PENDING"
	StatusApproved  ProfileStatus = "APPROVED"
	StatusRejected  ProfileStatus = "REJECTED"
	StatusSuspended ProfileStatus = "SUSPENDED"
	StatusFrozen    ProfileStatus = "FROZEN"
)

func (s ProfileStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuspended, StatusFrozen:
		return true
	}
	return false
}

// IsTransition reports whether the status is one an admin may request for a
// volunteer. PENDING is the initial state only.
func (s ProfileStatus) IsTransition() bool {
	return s.IsValid() && s != StatusPending
}

// SubscriptionKind distinguishes one-off donations from recurring ones.
type SubscriptionKind string

const (
	SubscriptionOneTime SubscriptionKind = "ONE_TIME"
	SubscriptionMonthly SubscriptionKind = "MONTHLY"
)

func (k SubscriptionKind) IsValid() bool {
	return k == SubscriptionOneTime || k == SubscriptionMonthly
}

// Meta is the pagination block returned by list endpoints.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Volunteer is a volunteer record as returned by the admin API.
// Document and image references come in URL/key pairs; either half may be null
// when the volunteer has not uploaded the document.
type Volunteer struct {
	ID               string        `json:"id"`
	RegistrationCode string        `json:"registrationCode"`
	FullName         string        `json:"fullName"`
	PhoneNumber      string        `json:"phoneNumber"`
	Email            string        `json:"email"`
	City             string        `json:"city"`
	Division         string        `json:"division"`
	Role             string        `json:"role"`
	ProfileImageURL  *string       `json:"profileImageUrl"`
	ProfileImageKey  *string       `json:"profileImageKey"`
	GovernmentIDType string        `json:"governmentIdType"`
	GovernmentIDURL  *string       `json:"governmentIdUrl"`
	GovernmentIDKey  *string       `json:"governmentIdKey"`
	SelfieURL        *string       `json:"selfieUrl"`
	SelfieKey        *string       `json:"selfieKey"`
	AddressLine1     string        `json:"addressLine1"`
	AddressLine2     string        `json:"addressLine2"`
	State            string        `json:"state"`
	PostalCode       string        `json:"postalCode"`
	TermsAccepted    bool          `json:"termsAccepted"`
	TermsAcceptedAt  time.Time     `json:"termsAcceptedAt"`
	ProfileStatus    ProfileStatus `json:"profileStatus"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Donation is a donation record, including denormalized references to the
// volunteer who collected it and the donor who made it.
type Donation struct {
	ID                        string           `json:"id"`
	Amount                    int64            `json:"amount"`
	Status                    string           `json:"status"`
	SubscriptionType          SubscriptionKind `json:"subscriptionType"`
	VolunteerRegistrationCode string           `json:"volunteerRegistrationCode"`
	VolunteerName             string           `json:"volunteerName"`
	VolunteerEmail            string           `json:"volunteerEmail"`
	VolunteerPhoneNumber      string           `json:"volunteerPhoneNumber"`
	UserFullName              string           `json:"userFullName"`
	UserEmail                 string           `json:"userEmail"`
	CreatedAt                 time.Time        `json:"createdAt"`
}
