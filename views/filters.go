// Package views turns API entities into the typed components the pages and
// the CLI render, and owns the single rule deciding which endpoint serves a
// filter combination.
package views

import (
	"context"
	"strings"
	"time"

	"github.com/moliceiro/meals/models"
)

// RangeWindowDays is the width of the window fetched for restaurant + date.
const RangeWindowDays = 7

type MealEndpoint int

const (
	MealEndpointAll MealEndpoint = iota
	MealEndpointRange
	MealEndpointDateType
)

func (e MealEndpoint) String() string {
	switch e {
	case MealEndpointRange:
		return "range"
	case MealEndpointDateType:
		return "date+type"
	}
	return "all"
}

type MealFilter struct {
	RestaurantID uint
	Date         string
	MealType     string
}

// MealPlan is the endpoint call chosen for a MealFilter.
type MealPlan struct {
	Endpoint     MealEndpoint
	RestaurantID uint
	StartDate    string
	EndDate      string
	MealType     string
}

// Plan applies the precedence rule:
//
//  1. restaurant, date and type set: the combined date/type endpoint.
//  2. restaurant and date set: the range endpoint over [date, date+7d].
//  3. anything else: list all meals.
func (f MealFilter) Plan() MealPlan {
	f = f.normalized()
	switch {
	case f.RestaurantID != 0 && f.Date != "" && f.MealType != "":
		return MealPlan{Endpoint: MealEndpointDateType, RestaurantID: f.RestaurantID, StartDate: f.Date, MealType: f.MealType}
	case f.RestaurantID != 0 && f.Date != "":
		return MealPlan{Endpoint: MealEndpointRange, RestaurantID: f.RestaurantID, StartDate: f.Date, EndDate: addDays(f.Date, RangeWindowDays)}
	}
	return MealPlan{Endpoint: MealEndpointAll}
}

// Residual keeps the meals matching every set filter the plan's endpoint
// does not already guarantee. Order is preserved.
func (f MealFilter) Residual(plan MealPlan, meals []models.Meal) []models.Meal {
	if plan.Endpoint != MealEndpointAll {
		return meals
	}
	f = f.normalized()

	out := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if f.RestaurantID != 0 && m.Restaurant.ID != f.RestaurantID {
			continue
		}
		if f.Date != "" && m.Date != f.Date {
			continue
		}
		if f.MealType != "" && !strings.EqualFold(m.MealType, f.MealType) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (f MealFilter) normalized() MealFilter {
	f.Date = strings.TrimSpace(f.Date)
	f.MealType = strings.ToLower(strings.TrimSpace(f.MealType))
	return f
}

// MealSource is the part of the API client meal filtering needs.
type MealSource interface {
	ListMeals(ctx context.Context) ([]models.Meal, error)
	ListMealsByRestaurantRange(ctx context.Context, restaurantID uint, start, end string) ([]models.Meal, error)
	ListMealsByRestaurantDate(ctx context.Context, restaurantID uint, date, mealType string) ([]models.Meal, error)
}

// LoadMeals fetches the meals matching f.
func LoadMeals(ctx context.Context, src MealSource, f MealFilter) ([]models.Meal, error) {
	plan := f.Plan()

	var (
		meals []models.Meal
		err   error
	)
	switch plan.Endpoint {
	case MealEndpointDateType:
		meals, err = src.ListMealsByRestaurantDate(ctx, plan.RestaurantID, plan.StartDate, plan.MealType)
	case MealEndpointRange:
		meals, err = src.ListMealsByRestaurantRange(ctx, plan.RestaurantID, plan.StartDate, plan.EndDate)
	default:
		meals, err = src.ListMeals(ctx)
	}
	if err != nil {
		return nil, err
	}
	return f.Residual(plan, meals), nil
}

const (
	StatusFilterActive    = "active"
	StatusFilterUsed      = "used"
	StatusFilterCancelled = "cancelled"
)

type ReservationFilter struct {
	MealID uint
	Date   string
	Status string
}

// Match reports whether r passes the date and status filters.
func (f ReservationFilter) Match(r models.Reservation) bool {
	if f.Date != "" && r.Meal.Date != f.Date {
		return false
	}
	cancelled := r.Cancelled() || r.IsCancelled
	switch strings.ToLower(f.Status) {
	case StatusFilterActive:
		return !r.IsUsed && !cancelled
	case StatusFilterUsed:
		return r.IsUsed
	case StatusFilterCancelled:
		return cancelled
	}
	return true
}

func (f ReservationFilter) Apply(reservations []models.Reservation) []models.Reservation {
	out := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

type ReservationSource interface {
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	ListReservationsByMeal(ctx context.Context, mealID uint) ([]models.Reservation, error)
}

// LoadReservations fetches by meal when a meal is selected, otherwise all,
// then applies the date and status filters.
func LoadReservations(ctx context.Context, src ReservationSource, f ReservationFilter) ([]models.Reservation, error) {
	var (
		reservations []models.Reservation
		err          error
	)
	if f.MealID != 0 {
		reservations, err = src.ListReservationsByMeal(ctx, f.MealID)
	} else {
		reservations, err = src.ListReservations(ctx)
	}
	if err != nil {
		return nil, err
	}
	return f.Apply(reservations), nil
}

func addDays(date string, days int) string {
	t, err := models.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Add(time.Duration(days) * 24 * time.Hour).Format(models.DateLayout)
}
