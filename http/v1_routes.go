package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/v1")

	v1.GET("/recommendations/:farmer_id", s.handleGetRecommendations)
	v1.GET("/recommendations/:farmer_id/history", s.handleRecommendationHistory)
	v1.DELETE("/recommendations/:farmer_id/cache", s.handleClearRecommendationCache)
	v1.POST("/recommendations/:farmer_id/feedback", s.handleRecommendationFeedback)

	v1.POST("/farmers/:farmer_id", s.handleCreateFarmer)
	v1.GET("/farmers/:farmer_id", s.handleGetFarmer)
	v1.PUT("/farmers/:farmer_id", s.handleUpdateFarmer)
	v1.DELETE("/farmers/:farmer_id", s.handleDeleteFarmer)
	v1.POST("/farmers/:farmer_id/crop-history", s.handleAddCropHistory)
}
