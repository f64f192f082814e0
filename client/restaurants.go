package client

import (
	"context"
	"net/http"

	"github.com/moliceiro/meals/models"
)

func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := c.do(ctx, "Failed to fetch restaurants", http.MethodGet, "/api/restaurants", nil, nil, &out)
	return out, err
}

func (c *Client) GetRestaurant(ctx context.Context, id uint) (models.Restaurant, error) {
	var out models.Restaurant
	err := c.do(ctx, "Failed to fetch restaurant", http.MethodGet, idPath("/api/restaurants", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateRestaurant(ctx context.Context, req RestaurantRequest) (models.Restaurant, error) {
	var out models.Restaurant
	err := c.do(ctx, "Failed to create restaurant", http.MethodPost, "/api/restaurants", nil, req, &out)
	return out, err
}

func (c *Client) UpdateRestaurant(ctx context.Context, id uint, req RestaurantRequest) (models.Restaurant, error) {
	var out models.Restaurant
	err := c.do(ctx, "Failed to update restaurant", http.MethodPut, idPath("/api/restaurants", id), nil, req, &out)
	return out, err
}

func (c *Client) DeleteRestaurant(ctx context.Context, id uint) error {
	return c.do(ctx, "Failed to delete restaurant", http.MethodDelete, idPath("/api/restaurants", id), nil, nil, nil)
}
