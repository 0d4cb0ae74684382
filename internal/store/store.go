package store

import (
	"context"
	"time"
)

// Mode is the dialogue personality currently assigned to a user. The
// values double as callback suffixes in the mode-selection keyboard.
type Mode string

const (
	ModeSubscription Mode = "subscription"
	ModeRecommend    Mode = "info"
	ModeContent      Mode = "content"
	ModeAbout        Mode = "about"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSubscription, ModeRecommend, ModeContent, ModeAbout:
		return Mode(s), true
	}
	return "", false
}

// UserRecord holds subscription state and the current mode for one user.
// Records are created lazily on first contact and never deleted.
type UserRecord struct {
	ID              int64      `json:"id"`
	Username        string     `json:"username"`
	Mode            Mode       `json:"mode"`
	TrialUsed       bool       `json:"trial_used"`
	HasPaid         bool       `json:"has_paid"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PaymentRecord is cosmetic purchase history. Status stays "pending":
// there is no reconciliation against a real processor.
type PaymentRecord struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

const PaymentStatusPending = "pending"

type SubscriptionKind string

const (
	KindNone    SubscriptionKind = "none"
	KindTrial   SubscriptionKind = "trial"
	KindPaid    SubscriptionKind = "paid"
	KindExpired SubscriptionKind = "expired"
)

// Status is computed from the record on every call, never cached back.
type Status struct {
	Active   bool
	Kind     SubscriptionKind
	DaysLeft int
}

// UserStore abstracts persistence of user records and payments.
// Implementations must commit each mutation before returning and be safe
// for concurrent use across distinct user ids.
type UserStore interface {
	Get(ctx context.Context, userID int64) (UserRecord, bool, error)
	Create(ctx context.Context, userID int64, username string) (UserRecord, error)
	GrantTrial(ctx context.Context, userID int64, days int) (bool, error)
	GrantPaid(ctx context.Context, userID int64, days int) (bool, error)
	Status(ctx context.Context, userID int64) (Status, error)
	SetMode(ctx context.Context, userID int64, username string, mode Mode) error
	AddPayment(ctx context.Context, userID int64, amount int, description string) (PaymentRecord, error)
	Payments(ctx context.Context, userID int64) ([]PaymentRecord, error)
	Close() error
}

// computeStatus derives the access status at the given instant. DaysLeft
// is the whole-day floor of the remaining time; access is active only
// while at least one full day remains.
func computeStatus(rec UserRecord, now time.Time) Status {
	if rec.SubscriptionEnd == nil {
		return Status{Kind: KindNone}
	}
	daysLeft := int(rec.SubscriptionEnd.Sub(now).Hours() / 24)
	if daysLeft <= 0 {
		return Status{Kind: KindExpired}
	}
	kind := KindTrial
	if rec.HasPaid {
		kind = KindPaid
	}
	return Status{Active: true, Kind: kind, DaysLeft: daysLeft}
}
