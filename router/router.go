package router

import (
	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/controllers"
	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/middlewares"
	"github.com/moliceiro/meals/services"
	"github.com/moliceiro/meals/utils"
	"github.com/moliceiro/meals/web"
)

// Services are the domain services the REST API is served from.
type Services struct {
	Restaurants  *services.RestaurantService
	Meals        *services.MealService
	Reservations *services.ReservationService
	Weather      *services.WeatherService
	Hub          *events.Hub
}

type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies may set X-Forwarded-For; empty means loopback only.
	TrustedProxies []string

	// Pages, when set, mounts the HTML pages at the root.
	Pages *web.Pages
}

func SetupRouter(svc Services, opts Options) *gin.Engine {
	r := gin.New()
	proxies := opts.TrustedProxies
	if len(proxies) == 0 {
		proxies = []string{"127.0.0.1", "::1"}
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		utils.ErrorLogger.Printf("Invalid trusted proxies %v: %v", proxies, err)
	}
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigins))

	restaurantCtrl := controllers.NewRestaurantController(svc.Restaurants)
	mealCtrl := controllers.NewMealController(svc.Meals)
	reservationCtrl := controllers.NewReservationController(svc.Reservations)
	weatherCtrl := controllers.NewWeatherController(svc.Weather)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	if svc.Hub != nil {
		r.GET("/ws", controllers.NewEventsController(svc.Hub).Stream)
	}

	api := r.Group("/api")
	if opts.RateLimitRPS > 0 {
		api.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
	}

	// ----------------------------------------------------------------
	//                      RESTAURANTS
	// ----------------------------------------------------------------
	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", restaurantCtrl.GetAllRestaurants)
		restaurants.POST("", restaurantCtrl.CreateRestaurant)
		restaurants.GET("/:id", restaurantCtrl.GetRestaurant)
		restaurants.PUT("/:id", restaurantCtrl.UpdateRestaurant)
		restaurants.DELETE("/:id", restaurantCtrl.DeleteRestaurant)
	}

	// ----------------------------------------------------------------
	//                      MEALS
	// ----------------------------------------------------------------
	meals := api.Group("/meals")
	{
		meals.GET("", mealCtrl.GetAllMeals)
		meals.POST("", mealCtrl.CreateMeal)
		meals.GET("/:id", mealCtrl.GetMeal)
		meals.PUT("/:id", mealCtrl.UpdateMeal)
		meals.DELETE("/:id", mealCtrl.DeleteMeal)

		meals.GET("/restaurant/:restaurantId", mealCtrl.GetMealsByRestaurantAndDateRange)
		meals.GET("/restaurant/:restaurantId/date/:date", mealCtrl.GetMealsByRestaurantAndDate)
		meals.GET("/restaurant/:restaurantId/date/:date/type/:mealType", mealCtrl.GetMealsByRestaurantAndDate)
	}

	// ----------------------------------------------------------------
	//                      RESERVATIONS
	// ----------------------------------------------------------------
	reservations := api.Group("/reservations")
	{
		reservations.GET("", reservationCtrl.GetAllReservations)
		reservations.POST("", reservationCtrl.CreateReservation)
		reservations.GET("/meal/:mealId", reservationCtrl.GetReservationsByMeal)
		reservations.GET("/customer/:email", reservationCtrl.GetReservationsByCustomer)

		reservations.GET("/:code", reservationCtrl.GetReservation)
		reservations.DELETE("/:code", reservationCtrl.DeleteReservation)
		reservations.GET("/:code/qr", reservationCtrl.GetReservationQR)
		reservations.POST("/:code/cancel", reservationCtrl.CancelReservation)
		reservations.PUT("/:code/use", reservationCtrl.MarkReservationAsUsed)
		reservations.POST("/:code/use", reservationCtrl.MarkReservationAsUsed)
	}

	// ----------------------------------------------------------------
	//                      WEATHER
	// ----------------------------------------------------------------
	weather := api.Group("/weather")
	{
		weather.GET("/forecast", weatherCtrl.GetWeatherForecast)
		weather.GET("/cache-stats", weatherCtrl.GetCacheStats)
	}

	if opts.Pages != nil {
		opts.Pages.Register(r)
	}

	return r
}
