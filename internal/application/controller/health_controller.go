package controller

import (
	"github.com/labstack/echo/v4"

	"timebank-smoke/internal/domain/usecase/health"
)

type HealthController struct {
	api     *echo.Group
	useCase health.UseCase
}

func NewHealthController(api *echo.Group, useCase health.UseCase) *HealthController {
	return &HealthController{api: api, useCase: useCase}
}

// InitHealthRoutes initializes health check routes
func (controller *HealthController) InitHealthRoutes() {
	controller.api.GET("/health", controller.CheckHealth())
	controller.api.POST("/health", controller.CheckHealth())
}

func (controller *HealthController) CheckHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		response := controller.useCase.CheckHealth()
		if response.Payload == nil {
			return c.String(response.StatusCode, response.Text)
		}

		return c.JSON(response.StatusCode, response.Payload)
	}
}
