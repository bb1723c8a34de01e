package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carthatamaz/cartha/internal/models"
)

// GuesthouseRequest represents a create/update request for a listing
type GuesthouseRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	City        string   `json:"city" binding:"required"`
	Price       string   `json:"price" binding:"required"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Thumbnail   string   `json:"thumbnail"`
	Amenities   []string `json:"amenities"`
}

// GuesthouseDetail is the wire representation of a listing
type GuesthouseDetail struct {
	models.Guesthouse
	AmenityNames []string `json:"amenities,omitempty"`
}

func guesthouseDetail(g models.Guesthouse) GuesthouseDetail {
	return GuesthouseDetail{Guesthouse: g, AmenityNames: g.AmenityList()}
}

func guesthouseDetails(list []models.Guesthouse) []GuesthouseDetail {
	details := make([]GuesthouseDetail, len(list))
	for i, g := range list {
		details[i] = guesthouseDetail(g)
	}
	return details
}

// listGuesthouses returns active listings, optionally filtered by city
func (s *Server) listGuesthouses(c *gin.Context) {
	query := s.db.Where("status = ?", models.GuesthouseActive)
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var guesthouses []models.Guesthouse
	if err := query.Order("created_at DESC").Find(&guesthouses).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list guesthouses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, guesthouseDetails(guesthouses))
}

func (s *Server) getGuesthouse(c *gin.Context) {
	var guesthouse models.Guesthouse
	if err := s.db.Where("id = ?", c.Param("id")).First(&guesthouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guesthouse not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, guesthouseDetail(guesthouse))
}

// listOwnerGuesthouses returns the authenticated host's own listings,
// including pending and rejected ones
func (s *Server) listOwnerGuesthouses(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var guesthouses []models.Guesthouse
	if err := s.db.Where("owner_id = ?", sessionData.UserID).
		Order("created_at DESC").Find(&guesthouses).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list owner guesthouses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, guesthouseDetails(guesthouses))
}

func (s *Server) createGuesthouse(c *gin.Context) {
	var req GuesthouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)

	guesthouse := &models.Guesthouse{
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Thumbnail:   req.Thumbnail,
		OwnerID:     sessionData.UserID,
		Status:      models.GuesthousePending,
	}
	if err := guesthouse.SetAmenities(req.Amenities); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amenities"})
		return
	}

	if err := s.db.Create(guesthouse).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guesthouse"})
		return
	}

	s.logger.Info().
		Str("guesthouse_id", guesthouse.ID).
		Str("owner_id", sessionData.UserID).
		Msg("Guesthouse created")

	c.JSON(http.StatusCreated, guesthouseDetail(*guesthouse))
}

func (s *Server) updateGuesthouse(c *gin.Context) {
	var req GuesthouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)

	var guesthouse models.Guesthouse
	if err := s.db.Where("id = ?", c.Param("id")).First(&guesthouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guesthouse not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Hosts can only edit their own listings; admins can edit any
	if guesthouse.OwnerID != sessionData.UserID && sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}

	guesthouse.Title = req.Title
	guesthouse.Description = req.Description
	guesthouse.City = req.City
	guesthouse.Price = req.Price
	guesthouse.Latitude = req.Latitude
	guesthouse.Longitude = req.Longitude
	guesthouse.Thumbnail = req.Thumbnail
	if err := guesthouse.SetAmenities(req.Amenities); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amenities"})
		return
	}

	if err := s.db.Save(&guesthouse).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guesthouse"})
		return
	}

	c.JSON(http.StatusOK, guesthouseDetail(guesthouse))
}

func (s *Server) deleteGuesthouse(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var guesthouse models.Guesthouse
	if err := s.db.Where("id = ?", c.Param("id")).First(&guesthouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guesthouse not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if guesthouse.OwnerID != sessionData.UserID && sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}

	if err := s.db.Delete(&guesthouse).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete guesthouse"})
		return
	}

	s.logger.Info().
		Str("guesthouse_id", guesthouse.ID).
		Str("deleted_by", sessionData.UserID).
		Msg("Guesthouse deleted")

	c.Status(http.StatusNoContent)
}
