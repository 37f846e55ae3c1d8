package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-task-api/internal/middleware"
	"project-task-api/internal/response"
)

// ServiceName is reported by the index and health endpoints
const ServiceName = "project-task-api"

// Index godoc
// @Summary      서비스 정보
// @Tags         index
// @Produce      json
// @Success      200 {object} response.SuccessResponse "서비스 정보"
// @Router       / [get]
func Index(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, gin.H{
		"service":     ServiceName,
		"loginUrl":    middleware.LoginPath,
		"registerUrl": "/register/",
		"docsUrl":     "/swagger/index.html",
	})
}
