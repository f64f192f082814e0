package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"github.com/moliceiro/meals/views"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	themeCookie = "theme"
	themeLight  = "light"
	themeDark   = "dark"
)

// API is the subset of the REST client the pages call.
type API interface {
	views.MealSource
	views.ReservationSource

	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id uint) (models.Restaurant, error)
	CreateRestaurant(ctx context.Context, req client.RestaurantRequest) (models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id uint, req client.RestaurantRequest) (models.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id uint) error

	GetMeal(ctx context.Context, id uint) (models.Meal, error)
	CreateMeal(ctx context.Context, req client.MealRequest) (models.Meal, error)
	UpdateMeal(ctx context.Context, id uint, req client.MealRequest) (models.Meal, error)
	DeleteMeal(ctx context.Context, id uint) error

	GetReservation(ctx context.Context, code string) (models.Reservation, error)
	CreateReservation(ctx context.Context, req client.ReservationRequest) (models.Reservation, error)
	CancelReservation(ctx context.Context, code string) (models.Reservation, error)
	MarkReservationUsed(ctx context.Context, code string) (models.Reservation, error)
	DeleteReservation(ctx context.Context, code string) error

	GetWeatherForecast(ctx context.Context, date, location string) (models.WeatherForecast, error)
	GetCacheStats(ctx context.Context) (models.CacheStats, error)
}

// Pages renders the server-side UI on top of the REST API.
type Pages struct {
	API       API
	templates *template.Template
}

func NewPages(api API) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{API: api, templates: tmpl}, nil
}

func (p *Pages) Register(r gin.IRouter) {
	r.GET("/", p.Home)
	r.GET("/theme", p.Theme)

	r.GET("/restaurants", p.Restaurants)
	r.POST("/restaurants", p.SaveRestaurant)
	r.POST("/restaurants/:id", p.SaveRestaurant)
	r.POST("/restaurants/:id/delete", p.DeleteRestaurant)
	r.GET("/restaurant-details", p.RestaurantDetails)

	r.GET("/meals", p.Meals)
	r.POST("/meals", p.SaveMeal)
	r.POST("/meals/:id", p.SaveMeal)
	r.POST("/meals/:id/delete", p.DeleteMeal)

	r.GET("/reservations", p.Reservations)
	r.POST("/reservations/:code/checkin", p.CheckInReservation)
	r.POST("/reservations/:code/cancel", p.CancelReservation)
	r.POST("/reservations/:code/delete", p.DeleteReservation)
	r.GET("/reservation-form", p.ReservationForm)
	r.POST("/reservation-form", p.CreateReservation)

	r.GET("/checkin", p.CheckIn)
	r.POST("/checkin", p.ConfirmCheckIn)
}

// layout is the data every page template shares.
type layout struct {
	Title   string
	Active  string
	Theme   string
	Path    string
	Banners []*views.Banner
}

func (p *Pages) layout(c *gin.Context, title, active string) layout {
	l := layout{
		Title:  title,
		Active: active,
		Theme:  themeLight,
		Path:   c.Request.URL.Path,
	}
	if theme, err := c.Cookie(themeCookie); err == nil && theme == themeDark {
		l.Theme = themeDark
	}
	if notice := c.Query("notice"); notice != "" {
		l.Banners = append(l.Banners, views.NoticeBanner(notice))
	}
	if msg := c.Query("error"); msg != "" {
		l.Banners = append(l.Banners, &views.Banner{Kind: views.BannerError, Text: msg, DismissAfter: views.BannerTimeout})
	}
	return l
}

func (l *layout) fail(action string, err error) {
	utils.ErrorLogger.WithError(err).Error(action)
	l.Banners = append(l.Banners, views.ErrorBanner(action, err))
}

func (p *Pages) render(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		utils.ErrorLogger.WithError(err).WithField("template", name).Error("Failed to render page")
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// redirect sends the browser back to path with a notice or error banner.
func redirect(c *gin.Context, path string, query url.Values, key, msg string) {
	if query == nil {
		query = url.Values{}
	}
	if msg != "" {
		query.Set(key, msg)
	}
	target := path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	c.Redirect(http.StatusSeeOther, target)
}

func redirectNotice(c *gin.Context, path, msg string) {
	redirect(c, path, nil, "notice", msg)
}

func redirectError(c *gin.Context, path, action string, err error) {
	utils.ErrorLogger.WithError(err).Error(action)
	redirect(c, path, nil, "error", views.ErrorBanner(action, err).Text)
}

// apiContext tags API calls with the visitor's address so rate limits apply per browser.
func apiContext(c *gin.Context) context.Context {
	return client.WithForwardedFor(c.Request.Context(), c.ClientIP())
}

func parseID(s string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// Theme -> stores the light/dark preference and returns to the page
func (p *Pages) Theme(c *gin.Context) {
	mode := themeLight
	if c.Query("mode") == themeDark {
		mode = themeDark
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, mode, 365*24*60*60, "/", "", false, true)

	back := c.Query("return")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}

type homePage struct {
	layout
	Restaurants []views.RestaurantCard
	Stats       *models.CacheStats
}

func (p *Pages) Home(c *gin.Context) {
	ctx := apiContext(c)
	data := homePage{layout: p.layout(c, "Home", "home")}

	restaurants, err := p.API.ListRestaurants(ctx)
	if err != nil {
		data.fail("Failed to load restaurants", err)
	}
	data.Restaurants = views.NewRestaurantCards(restaurants)

	if stats, err := p.API.GetCacheStats(ctx); err == nil {
		data.Stats = &stats
	}
	p.render(c, "home", data)
}
