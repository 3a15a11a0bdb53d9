package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krishisetu/agri-advisor/db"
	"github.com/krishisetu/agri-advisor/recommend"
)

// maxPrevCrops bounds how much crop history feeds a recommendation request.
const maxPrevCrops = 5

func (s *Server) handleGetRecommendations(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	forceRefresh := false
	if refreshStr := c.Query("force_refresh"); refreshStr != "" {
		val, err := strconv.ParseBool(refreshStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid force_refresh"})
			return
		}
		forceRefresh = val
	}

	topN := 0
	if topNStr := c.Query("top_n"); topNStr != "" {
		parsed, err := strconv.Atoi(topNStr)
		if err != nil || parsed < 1 || parsed > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top_n must be between 1 and 10"})
			return
		}
		topN = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 90*time.Second)
	defer cancel()

	farmer, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		if errors.Is(err, db.ErrFarmerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "farmer profile not found"})
			return
		}
		log.Printf("http: load farmer %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading farmer profile"})
		return
	}

	if farmer.Village == "" || farmer.State == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "farmer profile missing village or state"})
		return
	}

	prevCrops, err := s.store.RecentCropNames(ctx, farmerID, maxPrevCrops)
	if err != nil {
		log.Printf("http: load crop history %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading crop history"})
		return
	}

	resp, err := s.svc.Recommend(ctx, recommend.Request{
		FarmerID:     farmerID,
		Village:      farmer.Village,
		State:        farmer.State,
		Language:     farmer.Language,
		PrevCrops:    prevCrops,
		ForceRefresh: forceRefresh,
		TopN:         topN,
	})
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrProfileIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": "farmer profile missing village or state"})
		case errors.Is(err, recommend.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to fetch location data, please try again later"})
		default:
			log.Printf("http: recommend %s: %v", farmerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error generating recommendations"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRecommendationHistory(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = parsed
	}

	entry, err := s.svc.LastCached(c.Request.Context(), farmerID)
	if err != nil {
		log.Printf("http: recommendation history %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching recommendation history"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{
			"farmer_id": farmerID,
			"message":   "no recommendation history found",
			"history":   []recommend.ScoredRecommendation{},
		})
		return
	}

	recs := entry.Response.Recommendations
	if len(recs) > limit {
		recs = recs[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"farmer_id":       farmerID,
		"last_updated":    entry.CreatedAt,
		"recommendations": recs,
	})
}

func (s *Server) handleClearRecommendationCache(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	if err := s.svc.InvalidateCache(c.Request.Context(), farmerID); err != nil {
		log.Printf("http: clear cache %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error clearing cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

type feedbackRequest struct {
	CropName string  `json:"crop_name"`
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment,omitempty"`
}

func (s *Server) handleRecommendationFeedback(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback body"})
		return
	}
	if req.CropName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "crop_name is required"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	id, err := s.store.InsertFeedback(c.Request.Context(), farmerID, req.CropName, req.Rating, req.Comment)
	if err != nil {
		log.Printf("http: feedback %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "feedback submitted",
		"feedback_id": id,
	})
}
