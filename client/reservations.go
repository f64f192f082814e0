package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/moliceiro/meals/models"
)

func codePath(code string) string {
	return "/api/reservations/" + url.PathEscape(code)
}

func (c *Client) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, "Failed to fetch reservations", http.MethodGet, "/api/reservations", nil, nil, &out)
	return out, err
}

func (c *Client) GetReservation(ctx context.Context, code string) (models.Reservation, error) {
	var out models.Reservation
	err := c.do(ctx, "Failed to fetch reservation", http.MethodGet, codePath(code), nil, nil, &out)
	return out, err
}

func (c *Client) ListReservationsByMeal(ctx context.Context, mealID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, "Failed to fetch reservations", http.MethodGet, idPath("/api/reservations/meal", mealID), nil, nil, &out)
	return out, err
}

func (c *Client) ListReservationsByCustomer(ctx context.Context, email string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, "Failed to fetch reservations", http.MethodGet, "/api/reservations/customer/"+url.PathEscape(email), nil, nil, &out)
	return out, err
}

func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (models.Reservation, error) {
	var out models.Reservation
	err := c.do(ctx, "Failed to create reservation", http.MethodPost, "/api/reservations", nil, req, &out)
	return out, err
}

func (c *Client) DeleteReservation(ctx context.Context, code string) error {
	return c.do(ctx, "Failed to delete reservation", http.MethodDelete, codePath(code), nil, nil, nil)
}

func (c *Client) CancelReservation(ctx context.Context, code string) (models.Reservation, error) {
	var out models.Reservation
	err := c.do(ctx, "Failed to cancel reservation", http.MethodPost, codePath(code)+"/cancel", nil, nil, &out)
	return out, err
}

// MarkReservationUsed checks the reservation in.
func (c *Client) MarkReservationUsed(ctx context.Context, code string) (models.Reservation, error) {
	var out models.Reservation
	err := c.do(ctx, "Failed to mark reservation as used", http.MethodPut, codePath(code)+"/use", nil, nil, &out)
	return out, err
}
