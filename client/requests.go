package client

// Ref is a nested {"id": ...} reference.
type Ref struct {
	ID uint `json:"id"`
}

type RestaurantRequest struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Capacity       int    `json:"capacity"`
	OperatingHours string `json:"operatingHours"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
}

type MealRequest struct {
	Restaurant  Ref     `json:"restaurant"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Date        string  `json:"date"`
	MealType    string  `json:"mealType"`
}

type ReservationRequest struct {
	Meal           Ref    `json:"meal"`
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	NumberOfPeople int    `json:"numberOfPeople"`
}
