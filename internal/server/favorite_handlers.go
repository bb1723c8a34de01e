package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carthatamaz/cartha/internal/models"
)

// FavoriteRequest represents an add-favorite request
type FavoriteRequest struct {
	GuesthouseID string `json:"guesthouseId" binding:"required"`
}

// listFavorites returns the guesthouses the user has favorited
func (s *Server) listFavorites(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var favorites []models.Favorite
	err := s.db.Preload("Guesthouse").
		Where("user_id = ?", sessionData.UserID).
		Order("created_at DESC").Find(&favorites).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list favorites")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	guesthouses := make([]GuesthouseDetail, 0, len(favorites))
	for _, f := range favorites {
		if f.Guesthouse != nil {
			guesthouses = append(guesthouses, guesthouseDetail(*f.Guesthouse))
		}
	}

	c.JSON(http.StatusOK, guesthouses)
}

func (s *Server) addFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)

	var guesthouse models.Guesthouse
	if err := s.db.Where("id = ?", req.GuesthouseID).First(&guesthouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guesthouse not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Adding twice is a no-op
	var existing models.Favorite
	err := s.db.Where("user_id = ? AND guesthouse_id = ?", sessionData.UserID, req.GuesthouseID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	favorite := &models.Favorite{
		UserID:       sessionData.UserID,
		GuesthouseID: req.GuesthouseID,
	}
	if err := s.db.Create(favorite).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to add favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// removeFavorite removes a favorite by guesthouse ID
func (s *Server) removeFavorite(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	result := s.db.Where("user_id = ? AND guesthouse_id = ?", sessionData.UserID, c.Param("id")).
		Delete(&models.Favorite{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to remove favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) checkFavorite(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var count int64
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND guesthouse_id = ?", sessionData.UserID, c.Param("id")).
		Count(&count).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, count > 0)
}
