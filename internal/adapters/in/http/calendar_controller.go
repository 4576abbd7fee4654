package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/in"
	"github.com/suchimauz/medical-calendar-api/internal/utils"
)

type CalendarController struct {
	useCase  in.CalendarUseCase
	cfg      *config.Config
	location *time.Location
}

func NewCalendarController(useCase in.CalendarUseCase, cfg *config.Config) *CalendarController {
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		location = time.UTC
	}

	return &CalendarController{
		useCase:  useCase,
		cfg:      cfg,
		location: location,
	}
}

func (c *CalendarController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.health)

	api := router.Group("/api/v1")
	api.Use(RequestID())
	api.Use(BasicAuth(c.cfg))
	{
		api.GET("/calendar", c.getDayGrid)
		api.GET("/stats", c.getStats)
		api.POST("/appointments", c.createAppointment)
		api.PATCH("/appointments/:id", c.updateAppointment)
		api.POST("/appointments/:id/status/advance", c.advanceStatus)
	}
}

func (c *CalendarController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.cfg.App.Version,
	})
}

// Дата по умолчанию - сегодня в таймзоне клиники
func (c *CalendarController) dateParam(ctx *gin.Context) string {
	date := ctx.Query("date")
	if date == "" {
		date = utils.Today(c.location)
	}
	return date
}

func (c *CalendarController) getDayGrid(ctx *gin.Context) {
	date := c.dateParam(ctx)

	grid, err := c.useCase.GetDayGrid(ctx.Request.Context(), date)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, grid)
}

func (c *CalendarController) getStats(ctx *gin.Context) {
	date := c.dateParam(ctx)

	stats, err := c.useCase.GetStats(ctx.Request.Context(), date)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (c *CalendarController) createAppointment(ctx *gin.Context) {
	var req domain.CreateAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := c.useCase.CreateAppointment(ctx.Request.Context(), req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, appointment)
}

func (c *CalendarController) updateAppointment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	var req domain.UpdateAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := c.useCase.UpdateAppointment(ctx.Request.Context(), id, req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, appointment)
}

func (c *CalendarController) advanceStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	appointment, err := c.useCase.AdvanceStatus(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, appointment)
}
