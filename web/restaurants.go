package web

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"github.com/moliceiro/meals/views"
)

type restaurantForm struct {
	Name           string `form:"name" binding:"required"`
	Location       string `form:"location" binding:"required"`
	Capacity       int    `form:"capacity" binding:"gte=0"`
	OperatingHours string `form:"operatingHours" binding:"required"`
	Phone          string `form:"phone"`
	Email          string `form:"email" binding:"omitempty,email"`
}

// bindForm decodes a posted form, flattening validation errors.
func bindForm(c *gin.Context, form interface{}) error {
	err := c.ShouldBind(form)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errors.New(utils.FormatValidationErrors(verrs))
	}
	return err
}

type restaurantsPage struct {
	layout
	Restaurants []views.RestaurantCard
	Editing     *models.Restaurant
}

func (p *Pages) Restaurants(c *gin.Context) {
	ctx := apiContext(c)
	data := restaurantsPage{layout: p.layout(c, "Restaurants", "restaurants")}

	restaurants, err := p.API.ListRestaurants(ctx)
	if err != nil {
		data.fail("Failed to load restaurants", err)
	}
	data.Restaurants = views.NewRestaurantCards(restaurants)

	if id := parseID(c.Query("edit")); id != 0 {
		restaurant, err := p.API.GetRestaurant(ctx, id)
		if err != nil {
			data.fail("Failed to load restaurant details", err)
		} else {
			data.Editing = &restaurant
		}
	}
	p.render(c, "restaurants", data)
}

// SaveRestaurant -> creates a restaurant, or updates it when the path has an id
func (p *Pages) SaveRestaurant(c *gin.Context) {
	var form restaurantForm
	if err := bindForm(c, &form); err != nil {
		redirectError(c, "/restaurants", "Failed to save restaurant", err)
		return
	}
	req := client.RestaurantRequest{
		Name:           form.Name,
		Location:       form.Location,
		Capacity:       form.Capacity,
		OperatingHours: form.OperatingHours,
		Phone:          form.Phone,
		Email:          form.Email,
	}

	ctx := apiContext(c)
	if id := parseID(c.Param("id")); id != 0 {
		if _, err := p.API.UpdateRestaurant(ctx, id, req); err != nil {
			redirectError(c, "/restaurants", "Failed to save restaurant", err)
			return
		}
		redirectNotice(c, "/restaurants", "Restaurant updated successfully")
		return
	}
	if _, err := p.API.CreateRestaurant(ctx, req); err != nil {
		redirectError(c, "/restaurants", "Failed to save restaurant", err)
		return
	}
	redirectNotice(c, "/restaurants", "Restaurant created successfully")
}

func (p *Pages) DeleteRestaurant(c *gin.Context) {
	if err := p.API.DeleteRestaurant(apiContext(c), parseID(c.Param("id"))); err != nil {
		redirectError(c, "/restaurants", "Failed to delete restaurant", err)
		return
	}
	redirectNotice(c, "/restaurants", "Restaurant deleted successfully")
}

type restaurantDetailsPage struct {
	layout
	Restaurant *views.RestaurantCard
	Weather    *views.WeatherPanel
	Meals      []views.MealCard
}

// RestaurantDetails -> restaurant info, today's weather at its location and its meals
func (p *Pages) RestaurantDetails(c *gin.Context) {
	ctx := apiContext(c)
	data := restaurantDetailsPage{layout: p.layout(c, "Restaurant", "restaurants")}

	id := parseID(c.Query("id"))
	restaurant, err := p.API.GetRestaurant(ctx, id)
	if err != nil {
		data.fail("Failed to load restaurant details", err)
		p.render(c, "restaurant_details", data)
		return
	}
	card := views.NewRestaurantCards([]models.Restaurant{restaurant})[0]
	data.Restaurant = &card
	data.Title = restaurant.Name

	forecast, err := p.API.GetWeatherForecast(ctx, "", restaurant.WeatherLocation())
	if err != nil {
		data.fail("Failed to load weather information", err)
	} else {
		panel := views.NewWeatherPanel(forecast)
		data.Weather = &panel
	}

	meals, err := views.LoadMeals(ctx, p.API, views.MealFilter{RestaurantID: restaurant.ID})
	if err != nil {
		data.fail("Failed to load meals", err)
	}
	data.Meals = views.NewMealCards(meals)

	p.render(c, "restaurant_details", data)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
