package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/krishisetu/agri-advisor/db"
)

type createFarmerRequest struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Phone          *string  `json:"phone,omitempty"`
	Village        string   `json:"village"`
	State          string   `json:"state"`
	District       *string  `json:"district,omitempty"`
	Pincode        *string  `json:"pincode,omitempty"`
	LandSize       *float64 `json:"land_size,omitempty"`
	IrrigationType *string  `json:"irrigation_type,omitempty"`
	Language       string   `json:"language"`
}

func (s *Server) handleCreateFarmer(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	var req createFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid farmer body"})
		return
	}
	if req.Email == "" || req.Name == "" || req.Village == "" || req.State == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, name, village and state are required"})
		return
	}

	farmer := db.Farmer{
		ID:             farmerID,
		Email:          req.Email,
		Name:           req.Name,
		Phone:          req.Phone,
		Village:        req.Village,
		State:          req.State,
		District:       req.District,
		Pincode:        req.Pincode,
		LandSize:       req.LandSize,
		IrrigationType: req.IrrigationType,
		Language:       req.Language,
	}
	if err := s.store.UpsertFarmer(c.Request.Context(), farmer); err != nil {
		log.Printf("http: create farmer %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving farmer profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"farmer_id": farmerID})
}

func (s *Server) handleGetFarmer(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	farmer, err := s.store.GetFarmer(c.Request.Context(), farmerID)
	if err != nil {
		if errors.Is(err, db.ErrFarmerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "farmer profile not found"})
			return
		}
		log.Printf("http: get farmer %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching farmer profile"})
		return
	}

	crops, err := s.store.RecentCropNames(c.Request.Context(), farmerID, maxPrevCrops)
	if err != nil {
		log.Printf("http: get crop history %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching crop history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farmer":       farmer,
		"recent_crops": crops,
	})
}

type updateFarmerRequest struct {
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Village        *string  `json:"village,omitempty"`
	State          *string  `json:"state,omitempty"`
	District       *string  `json:"district,omitempty"`
	Pincode        *string  `json:"pincode,omitempty"`
	LandSize       *float64 `json:"land_size,omitempty"`
	IrrigationType *string  `json:"irrigation_type,omitempty"`
	Language       *string  `json:"language,omitempty"`
}

func (s *Server) handleUpdateFarmer(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	var req updateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update body"})
		return
	}

	update := db.FarmerUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Village:        req.Village,
		State:          req.State,
		District:       req.District,
		Pincode:        req.Pincode,
		LandSize:       req.LandSize,
		IrrigationType: req.IrrigationType,
		Language:       req.Language,
	}

	if err := s.store.UpdateFarmer(c.Request.Context(), farmerID, update); err != nil {
		if errors.Is(err, db.ErrFarmerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "farmer profile not found"})
			return
		}
		log.Printf("http: update farmer %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating farmer profile"})
		return
	}

	// Location or preference changes make the cached recommendations stale.
	if err := s.svc.InvalidateCache(c.Request.Context(), farmerID); err != nil {
		log.Printf("http: invalidate cache after update %s: %v", farmerID, err)
	}

	c.JSON(http.StatusOK, gin.H{"farmer_id": farmerID})
}

func (s *Server) handleDeleteFarmer(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	if err := s.store.DeleteFarmer(c.Request.Context(), farmerID); err != nil {
		if errors.Is(err, db.ErrFarmerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "farmer profile not found"})
			return
		}
		log.Printf("http: delete farmer %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting farmer profile"})
		return
	}

	if err := s.svc.InvalidateCache(c.Request.Context(), farmerID); err != nil {
		log.Printf("http: invalidate cache after delete %s: %v", farmerID, err)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": farmerID})
}

type cropHistoryRequest struct {
	CropName    string  `json:"crop_name"`
	Season      string  `json:"season"`
	Year        int     `json:"year"`
	YieldAmount *string `json:"yield_amount,omitempty"`
}

func (s *Server) handleAddCropHistory(c *gin.Context) {
	farmerID := c.Param("farmer_id")
	if !s.authorize(c, farmerID) {
		return
	}

	var req cropHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid crop history body"})
		return
	}
	if req.CropName == "" || req.Season == "" || req.Year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "crop_name, season and year are required"})
		return
	}

	entry := db.CropHistoryEntry{
		CropName:    req.CropName,
		Season:      req.Season,
		Year:        req.Year,
		YieldAmount: req.YieldAmount,
	}
	if err := s.store.AddCropHistory(c.Request.Context(), farmerID, entry); err != nil {
		log.Printf("http: add crop history %s: %v", farmerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving crop history"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "crop history added"})
}
