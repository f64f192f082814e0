package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/services"
	"github.com/moliceiro/meals/utils"
)

type MealController struct {
	Service *services.MealService
}

func NewMealController(svc *services.MealService) *MealController {
	return &MealController{Service: svc}
}

// GetAllMeals -> every meal, ordered by date
func (mc *MealController) GetAllMeals(c *gin.Context) {
	meals, err := mc.Service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, meals)
}

func (mc *MealController) GetMeal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	meal, err := mc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, meal)
}

// GetMealsByRestaurantAndDateRange -> ?startDate=&endDate=, both required
func (mc *MealController) GetMealsByRestaurantAndDateRange(c *gin.Context) {
	restaurantID, ok := paramID(c, "restaurantId")
	if !ok {
		return
	}
	meals, err := mc.Service.ListByRestaurantBetween(c.Request.Context(), restaurantID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, meals)
}

// GetMealsByRestaurantAndDate -> meal type from the path or ?mealType=
func (mc *MealController) GetMealsByRestaurantAndDate(c *gin.Context) {
	restaurantID, ok := paramID(c, "restaurantId")
	if !ok {
		return
	}
	mealType := c.Param("mealType")
	if mealType == "" {
		mealType = c.Query("mealType")
	}
	meals, err := mc.Service.ListByRestaurantDate(c.Request.Context(), restaurantID, c.Param("date"), mealType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, meals)
}

func (mc *MealController) CreateMeal(c *gin.Context) {
	var req services.MealInput
	if !utils.BindJSON(c, &req) {
		return
	}
	meal, err := mc.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, meal)
}

func (mc *MealController) UpdateMeal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.MealInput
	if !utils.BindJSON(c, &req) {
		return
	}
	meal, err := mc.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, meal)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := mc.Service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
