package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"gorm.io/gorm"
)

type RestaurantInput struct {
	Name           string `json:"name" binding:"required"`
	Location       string `json:"location" binding:"required"`
	Capacity       int    `json:"capacity" binding:"gte=0"`
	OperatingHours string `json:"operatingHours" binding:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email" binding:"omitempty,email"`
}

type RestaurantService struct {
	DB     *gorm.DB
	Events events.Publisher
}

func NewRestaurantService(db *gorm.DB, pub events.Publisher) *RestaurantService {
	if pub == nil {
		pub = events.Discard
	}
	return &RestaurantService{DB: db, Events: pub}
}

func (s *RestaurantService) List(ctx context.Context) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Get returns the restaurant with its location resolved for weather lookups.
func (s *RestaurantService) Get(ctx context.Context, id uint) (models.Restaurant, error) {
	r, err := s.find(s.DB.WithContext(ctx), id)
	if err != nil {
		return r, err
	}
	r.Location = r.WeatherLocation()
	return r, nil
}

func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (models.Restaurant, error) {
	var r models.Restaurant
	if err := validateRestaurant(&in); err != nil {
		return r, err
	}
	copier.Copy(&r, &in)

	if err := s.DB.WithContext(ctx).Create(&r).Error; err != nil {
		return r, err
	}
	utils.InfoLogger.Printf("Restaurant created: %s (id=%d, capacity=%d)", r.Name, r.ID, r.Capacity)
	publish(ctx, s.Events, events.EventRestaurantCreated, strconv.Itoa(int(r.ID)), r)
	return r, nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint, in RestaurantInput) (models.Restaurant, error) {
	r, err := s.find(s.DB.WithContext(ctx), id)
	if err != nil {
		return r, err
	}
	if err := validateRestaurant(&in); err != nil {
		return r, err
	}
	copier.Copy(&r, &in)

	if err := s.DB.WithContext(ctx).Save(&r).Error; err != nil {
		return r, err
	}
	publish(ctx, s.Events, events.EventRestaurantUpdated, strconv.Itoa(int(r.ID)), r)
	return r, nil
}

// Delete removes a restaurant that no longer has meals.
func (s *RestaurantService) Delete(ctx context.Context, id uint) error {
	db := s.DB.WithContext(ctx)
	r, err := s.find(db, id)
	if err != nil {
		return err
	}

	var meals int64
	if err := db.Model(&models.Meal{}).Where("restaurant_id = ?", id).Count(&meals).Error; err != nil {
		return err
	}
	if meals > 0 {
		return conflict("Restaurant still has meals")
	}

	if err := db.Delete(&r).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Restaurant %d deleted", id)
	publish(ctx, s.Events, events.EventRestaurantDeleted, strconv.Itoa(int(id)), r)
	return nil
}

func (s *RestaurantService) find(db *gorm.DB, id uint) (models.Restaurant, error) {
	var r models.Restaurant
	if err := db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r, notFound("Restaurant")
		}
		return r, err
	}
	return r, nil
}

func validateRestaurant(in *RestaurantInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.OperatingHours = strings.TrimSpace(in.OperatingHours)
	switch {
	case in.Name == "":
		return invalid("Restaurant name is required")
	case in.Location == "":
		return invalid("Location is required")
	case in.OperatingHours == "":
		return invalid("Operating hours are required")
	case in.Capacity < 0:
		return invalid("Capacity must not be negative")
	}
	return nil
}
