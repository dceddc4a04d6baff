// internal/models/profile.go
package models

// Profile holds borrower identity fields. Name and contact details live on the
// identity record, not on the loan application, so the bridge looks them up
// separately during delivery.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
