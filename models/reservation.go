package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusActive    ReservationStatus = "ACTIVE"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCanceled  ReservationStatus = "CANCELED"
)

// Normalize maps the spellings other clients use onto the server's values.
func (s ReservationStatus) Normalize() ReservationStatus {
	switch ReservationStatus(strings.ToUpper(string(s))) {
	case "CONFIRMED", StatusActive:
		return StatusActive
	case "CANCELLED", StatusCanceled:
		return StatusCanceled
	case StatusCompleted:
		return StatusCompleted
	case StatusPending:
		return StatusPending
	}
	return s
}

type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ReservationCode string            `gorm:"type:varchar(16);uniqueIndex;not null" json:"reservationCode"`
	MealID          uint              `gorm:"not null;index" json:"-"`
	Meal            Meal              `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"meal"`
	CustomerName    string            `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerEmail   string            `gorm:"type:varchar(255);not null;index" json:"customerEmail"`
	NumberOfPeople  int               `gorm:"not null" json:"numberOfPeople"`
	ReservationTime time.Time         `gorm:"not null" json:"reservationTime"`
	IsUsed          bool              `gorm:"not null;default:false" json:"isUsed"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	IsCancelled     bool              `gorm:"-" json:"isCancelled"`
	CreatedAt       time.Time         `json:"-"`
	UpdatedAt       time.Time         `json:"-"`
}

// Cancelled reports whether the reservation was cancelled.
func (r Reservation) Cancelled() bool {
	return r.Status.Normalize() == StatusCanceled
}

// HoldsSeats reports whether the reservation still counts against capacity.
func (r Reservation) HoldsSeats() bool {
	return !r.IsUsed && !r.Cancelled()
}

// MarshalJSON keeps isCancelled in sync with the status.
func (r Reservation) MarshalJSON() ([]byte, error) {
	type alias Reservation
	a := alias(r)
	a.IsCancelled = r.Cancelled()
	return json.Marshal(a)
}

// FlexibleID accepts an id sent either as a JSON number or a numeric string.
type FlexibleID uint

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*id = FlexibleID(n)
	return nil
}
