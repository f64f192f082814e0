package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/utils"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientCapacity = errors.New("Not enough capacity in the restaurant")
	ErrAlreadyUsed          = errors.New("Reservation has already been used")
	ErrAlreadyCancelled     = errors.New("Reservation has been cancelled")
	ErrConflict             = errors.New("conflict")
	ErrWeatherUnavailable   = errors.New("weather forecast unavailable")
)

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// publish hands msg to pub and only logs a failure; mutations never fail
// because a listener is down.
func publish(ctx context.Context, pub events.Publisher, event, key string, data interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, events.Message{Event: event, Key: key, Data: data}); err != nil {
		utils.ErrorLogger.Printf("publishing %s: %v", event, err)
	}
}
