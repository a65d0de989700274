package entities

import "time"

// Referral represents a one-time inviter -> invitee attribution.
// The invitee is unique: an account can be referred at most once, ever.
type Referral struct {
	ID        int64     `db:"id"`
	InviterID int64     `db:"inviter_id"`
	InviteeID int64     `db:"invitee_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ReferralDetail is a referral joined with the invitee's account info for display
type ReferralDetail struct {
	InviteeID         int64     `db:"invitee_id"`
	InviteeExternalID string    `db:"invitee_external_id"`
	InviteeUsername   string    `db:"invitee_username"`
	JoinedAt          time.Time `db:"joined_at"`
}
