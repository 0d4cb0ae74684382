package payment

import "context"

// Gateway is the seam where a real payment processor would plug in.
type Gateway interface {
	Charge(ctx context.Context, userID int64, amountRUB int, description string) error
}

// StubGateway accepts every charge. The demo keeps payment history
// purely cosmetic; swapping in a real gateway must not touch handler
// logic.
type StubGateway struct{}

func (StubGateway) Charge(_ context.Context, _ int64, _ int, _ string) error { return nil }
