// Package events fans lifecycle changes of restaurants, meals and
// reservations out to websocket clients and, when configured, to kafka.
package events

import (
	"context"
	"errors"
)

const (
	EventRestaurantCreated = "restaurant_created"
	EventRestaurantUpdated = "restaurant_updated"
	EventRestaurantDeleted = "restaurant_deleted"

	EventMealCreated = "meal_created"
	EventMealUpdated = "meal_updated"
	EventMealDeleted = "meal_deleted"

	EventReservationCreated   = "reservation_created"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationUsed      = "reservation_used"
	EventReservationDeleted   = "reservation_deleted"
)

type Message struct {
	Event string      `json:"event"`
	Key   string      `json:"-"`
	Data  interface{} `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Discard drops every message.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Message) error { return nil }

// Multi delivers each message to every publisher, collecting failures.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
