package web

import (
	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/views"
)

type mealForm struct {
	RestaurantID uint    `form:"restaurantId" binding:"required"`
	Name         string  `form:"name" binding:"required"`
	Description  string  `form:"description" binding:"required"`
	Price        float64 `form:"price" binding:"gte=0"`
	Date         string  `form:"date" binding:"required"`
	MealType     string  `form:"mealType" binding:"required"`
}

type mealsPage struct {
	layout
	Filter                views.MealFilter
	Meals                 []views.MealCard
	RestaurantOptions     []views.Option
	TypeOptions           []views.Option
	FormRestaurantOptions []views.Option
	FormTypeOptions       []views.Option
	Weather               *views.WeatherPanel
	Editing               *models.Meal
}

// Meals -> filtered meal list, with the weather panel and edit form on demand
func (p *Pages) Meals(c *gin.Context) {
	ctx := apiContext(c)
	data := mealsPage{layout: p.layout(c, "Meals", "meals")}
	data.Filter = views.MealFilter{
		RestaurantID: parseID(c.Query("restaurantId")),
		Date:         c.Query("date"),
		MealType:     c.Query("type"),
	}

	restaurants, err := p.API.ListRestaurants(ctx)
	if err != nil {
		data.fail("Failed to load restaurants", err)
	}

	meals, err := views.LoadMeals(ctx, p.API, data.Filter)
	if err != nil {
		data.fail("Failed to load meals", err)
	}
	data.Meals = views.NewMealCards(meals)

	if id := parseID(c.Query("weather")); id != 0 {
		if panel, err := p.mealWeather(c, id); err != nil {
			data.fail("Failed to load weather information", err)
		} else {
			data.Weather = &panel
		}
	}

	formRestaurant, formType := data.Filter.RestaurantID, models.MealTypeLunch
	if id := parseID(c.Query("edit")); id != 0 {
		meal, err := p.API.GetMeal(ctx, id)
		if err != nil {
			data.fail("Failed to load meals", err)
		} else {
			data.Editing = &meal
			formRestaurant, formType = meal.Restaurant.ID, meal.MealType
		}
	}

	data.RestaurantOptions = views.RestaurantOptions(restaurants, data.Filter.RestaurantID)
	data.TypeOptions = views.MealTypeOptions(data.Filter.MealType)
	data.FormRestaurantOptions = views.RestaurantOptions(restaurants, formRestaurant)
	data.FormTypeOptions = views.MealTypeOptions(formType)
	p.render(c, "meals", data)
}

func (p *Pages) mealWeather(c *gin.Context, mealID uint) (views.WeatherPanel, error) {
	ctx := apiContext(c)
	meal, err := p.API.GetMeal(ctx, mealID)
	if err != nil {
		return views.WeatherPanel{}, err
	}
	forecast, err := p.API.GetWeatherForecast(ctx, meal.Date, meal.Restaurant.WeatherLocation())
	if err != nil {
		return views.WeatherPanel{}, err
	}
	return views.NewWeatherPanel(forecast), nil
}

// SaveMeal -> creates a meal, or updates it when the path has an id
func (p *Pages) SaveMeal(c *gin.Context) {
	var form mealForm
	if err := bindForm(c, &form); err != nil {
		redirectError(c, "/meals", "Failed to save meal", err)
		return
	}
	req := client.MealRequest{
		Restaurant:  client.Ref{ID: form.RestaurantID},
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Date:        form.Date,
		MealType:    form.MealType,
	}

	ctx := apiContext(c)
	if id := parseID(c.Param("id")); id != 0 {
		if _, err := p.API.UpdateMeal(ctx, id, req); err != nil {
			redirectError(c, "/meals", "Failed to save meal", err)
			return
		}
		redirectNotice(c, "/meals", "Meal updated successfully")
		return
	}
	if _, err := p.API.CreateMeal(ctx, req); err != nil {
		redirectError(c, "/meals", "Failed to save meal", err)
		return
	}
	redirectNotice(c, "/meals", "Meal created successfully")
}

func (p *Pages) DeleteMeal(c *gin.Context) {
	if err := p.API.DeleteMeal(apiContext(c), parseID(c.Param("id"))); err != nil {
		redirectError(c, "/meals", "Failed to delete meal", err)
		return
	}
	redirectNotice(c, "/meals", "Meal deleted successfully")
}
