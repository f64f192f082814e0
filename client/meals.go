package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/moliceiro/meals/models"
)

func (c *Client) ListMeals(ctx context.Context) ([]models.Meal, error) {
	var out []models.Meal
	err := c.do(ctx, "Failed to fetch meals", http.MethodGet, "/api/meals", nil, nil, &out)
	return out, err
}

func (c *Client) GetMeal(ctx context.Context, id uint) (models.Meal, error) {
	var out models.Meal
	err := c.do(ctx, "Failed to fetch meal", http.MethodGet, idPath("/api/meals", id), nil, nil, &out)
	return out, err
}

// ListMealsByRestaurantRange returns the restaurant's meals dated in [start, end].
func (c *Client) ListMealsByRestaurantRange(ctx context.Context, restaurantID uint, start, end string) ([]models.Meal, error) {
	q := url.Values{}
	q.Set("startDate", start)
	q.Set("endDate", end)

	var out []models.Meal
	err := c.do(ctx, "Failed to fetch meals", http.MethodGet, idPath("/api/meals/restaurant", restaurantID), q, nil, &out)
	return out, err
}

// ListMealsByRestaurantDate returns the restaurant's meals on date; mealType may be empty.
func (c *Client) ListMealsByRestaurantDate(ctx context.Context, restaurantID uint, date, mealType string) ([]models.Meal, error) {
	var q url.Values
	if mealType != "" {
		q = url.Values{"mealType": {mealType}}
	}

	var out []models.Meal
	path := idPath("/api/meals/restaurant", restaurantID) + "/date/" + url.PathEscape(date)
	err := c.do(ctx, "Failed to fetch meals", http.MethodGet, path, q, nil, &out)
	return out, err
}

func (c *Client) CreateMeal(ctx context.Context, req MealRequest) (models.Meal, error) {
	var out models.Meal
	err := c.do(ctx, "Failed to create meal", http.MethodPost, "/api/meals", nil, req, &out)
	return out, err
}

func (c *Client) UpdateMeal(ctx context.Context, id uint, req MealRequest) (models.Meal, error) {
	var out models.Meal
	err := c.do(ctx, "Failed to update meal", http.MethodPut, idPath("/api/meals", id), nil, req, &out)
	return out, err
}

func (c *Client) DeleteMeal(ctx context.Context, id uint) error {
	return c.do(ctx, "Failed to delete meal", http.MethodDelete, idPath("/api/meals", id), nil, nil, nil)
}
