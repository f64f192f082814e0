package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"gorm.io/gorm"
)

// EntityRef is a nested {"id": ...} reference in request bodies.
type EntityRef struct {
	ID models.FlexibleID `json:"id"`
}

type MealInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Price       float64    `json:"price" binding:"gte=0"`
	Date        string     `json:"date" binding:"required"`
	MealType    string     `json:"mealType" binding:"required"`
	Restaurant  *EntityRef `json:"restaurant"`
}

type MealService struct {
	DB     *gorm.DB
	Events events.Publisher
}

func NewMealService(db *gorm.DB, pub events.Publisher) *MealService {
	if pub == nil {
		pub = events.Discard
	}
	return &MealService{DB: db, Events: pub}
}

func (s *MealService) query(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Preload("Restaurant").Order("date, id")
}

func (s *MealService) List(ctx context.Context) ([]models.Meal, error) {
	meals := []models.Meal{}
	if err := s.query(ctx).Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (s *MealService) Get(ctx context.Context, id uint) (models.Meal, error) {
	var m models.Meal
	if err := s.DB.WithContext(ctx).Preload("Restaurant").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, notFound("Meal")
		}
		return m, err
	}
	return m, nil
}

// ListByRestaurantBetween returns the restaurant's meals dated within [start, end].
func (s *MealService) ListByRestaurantBetween(ctx context.Context, restaurantID uint, start, end string) ([]models.Meal, error) {
	if _, err := models.ParseDate(start); err != nil {
		return nil, invalid("startDate must be a YYYY-MM-DD date")
	}
	if _, err := models.ParseDate(end); err != nil {
		return nil, invalid("endDate must be a YYYY-MM-DD date")
	}

	meals := []models.Meal{}
	err := s.query(ctx).
		Where("restaurant_id = ? AND date BETWEEN ? AND ?", restaurantID, start, end).
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// ListByRestaurantDate returns the restaurant's meals on date, optionally
// restricted to one meal type.
func (s *MealService) ListByRestaurantDate(ctx context.Context, restaurantID uint, date, mealType string) ([]models.Meal, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, invalid("date must be a YYYY-MM-DD date")
	}

	q := s.query(ctx).Where("restaurant_id = ? AND date = ?", restaurantID, date)
	if mealType != "" {
		t, ok := models.NormalizeMealType(mealType)
		if !ok {
			return nil, invalid("unknown meal type " + strconv.Quote(mealType))
		}
		q = q.Where("meal_type = ?", t)
	}

	meals := []models.Meal{}
	if err := q.Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (s *MealService) Create(ctx context.Context, in MealInput) (models.Meal, error) {
	var m models.Meal
	if err := validateMeal(&in); err != nil {
		return m, err
	}
	if in.Restaurant == nil || in.Restaurant.ID == 0 {
		return m, invalid("Restaurant is required")
	}

	db := s.DB.WithContext(ctx)
	var restaurant models.Restaurant
	if err := db.First(&restaurant, uint(in.Restaurant.ID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, invalid("Restaurant not found")
		}
		return m, err
	}

	applyMealInput(&m, in)
	m.RestaurantID = restaurant.ID
	if err := db.Omit("Restaurant").Create(&m).Error; err != nil {
		return m, err
	}
	m.Restaurant = restaurant

	utils.InfoLogger.Printf("Meal created: %s on %s (%s) at restaurant %d", m.Name, m.Date, m.MealType, m.RestaurantID)
	publish(ctx, s.Events, events.EventMealCreated, strconv.Itoa(int(m.ID)), m)
	return m, nil
}

// Update replaces the editable fields of a meal. A restaurant reference moves
// the meal to that restaurant.
func (s *MealService) Update(ctx context.Context, id uint, in MealInput) (models.Meal, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return m, err
	}
	if err := validateMeal(&in); err != nil {
		return m, err
	}

	db := s.DB.WithContext(ctx)
	if in.Restaurant != nil && in.Restaurant.ID != 0 && uint(in.Restaurant.ID) != m.RestaurantID {
		var restaurant models.Restaurant
		if err := db.First(&restaurant, uint(in.Restaurant.ID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return m, invalid("Restaurant not found")
			}
			return m, err
		}
		m.RestaurantID = restaurant.ID
		m.Restaurant = restaurant
	}

	applyMealInput(&m, in)
	if err := db.Omit("Restaurant").Save(&m).Error; err != nil {
		return m, err
	}
	publish(ctx, s.Events, events.EventMealUpdated, strconv.Itoa(int(m.ID)), m)
	return m, nil
}

// Delete removes a meal with no reservation still holding seats. Used and
// cancelled reservations of the meal are removed with it.
func (s *MealService) Delete(ctx context.Context, id uint) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holding int64
		err := tx.Model(&models.Reservation{}).
			Where("meal_id = ? AND is_used = ? AND status <> ?", id, false, models.StatusCanceled).
			Count(&holding).Error
		if err != nil {
			return err
		}
		if holding > 0 {
			return conflict("Meal has active reservations")
		}
		if err := tx.Where("meal_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meal{}, id).Error
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Meal %d deleted", id)
	publish(ctx, s.Events, events.EventMealDeleted, strconv.Itoa(int(id)), m)
	return nil
}

func validateMeal(in *MealInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("Meal name is required")
	}
	if in.Price < 0 {
		return invalid("Price must not be negative")
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return invalid("date must be a YYYY-MM-DD date")
	}
	t, ok := models.NormalizeMealType(in.MealType)
	if !ok {
		return invalid("mealType must be breakfast, lunch or dinner")
	}
	in.MealType = t
	return nil
}

func applyMealInput(m *models.Meal, in MealInput) {
	m.Name = in.Name
	m.Description = in.Description
	m.Price = in.Price
	m.Date = in.Date
	m.MealType = in.MealType
}
