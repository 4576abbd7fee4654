package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/in"
)

type PatientController struct {
	useCase in.PatientUseCase
	cfg     *config.Config
}

func NewPatientController(useCase in.PatientUseCase, cfg *config.Config) *PatientController {
	return &PatientController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *PatientController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(RequestID())
	api.Use(BasicAuth(c.cfg))
	{
		api.GET("/patients", c.listPatients)
		api.POST("/patients", c.createPatient)
		api.PATCH("/patients/:id", c.updatePatient)
		api.GET("/patients/search", c.searchAppointments)
	}
}

func (c *PatientController) listPatients(ctx *gin.Context) {
	filter := domain.PatientFilter{
		Search: ctx.Query("search"),
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	patients, err := c.useCase.ListPatients(ctx.Request.Context(), filter)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, patients)
}

func (c *PatientController) createPatient(ctx *gin.Context) {
	var req domain.CreatePatientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := c.useCase.CreatePatient(ctx.Request.Context(), req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, patient)
}

func (c *PatientController) updatePatient(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID format"})
		return
	}

	var req domain.UpdatePatientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := c.useCase.UpdatePatient(ctx.Request.Context(), id, req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, patient)
}

func (c *PatientController) searchAppointments(ctx *gin.Context) {
	results, err := c.useCase.SearchAppointments(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, results)
}
