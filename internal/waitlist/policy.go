// Package waitlist holds the seat-freed policy hook. Today no promotion
// happens when a booking is cancelled; the hook exists so a promoter can be
// plugged in later without touching the booking transaction.
package waitlist

import "context"

// SeatFreedPolicy is invoked after a cancellation transaction commits.
type SeatFreedPolicy interface {
	OnSeatFreed(ctx context.Context, eventID int)
}

// NoPromotion leaves freed seats to whoever books next.
type NoPromotion struct{}

func (NoPromotion) OnSeatFreed(context.Context, int) {}
