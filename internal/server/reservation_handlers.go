package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carthatamaz/cartha/internal/models"
)

const dateLayout = "2006-01-02"

// ReservationRequest represents a booking request from a guest
type ReservationRequest struct {
	GuesthouseID    string `json:"guesthouseId" binding:"required"`
	CheckInDate     string `json:"checkInDate" binding:"required"`
	CheckOutDate    string `json:"checkOutDate" binding:"required"`
	NumberOfGuests  int    `json:"numberOfGuests" binding:"required,min=1"`
	SpecialRequests string `json:"specialRequests"`
}

// ReasonRequest carries an optional reason for cancel/reject operations
type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) listGuestReservations(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var reservations []models.Reservation
	if err := s.db.Preload("Guesthouse").Where("guest_id = ?", sessionData.UserID).
		Order("created_at DESC").Find(&reservations).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list reservations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func (s *Server) getReservation(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var reservation models.Reservation
	if err := s.db.Preload("Guesthouse").Where("id = ?", c.Param("id")).First(&reservation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Guests see their own bookings, hosts those of their listings
	if reservation.GuestID != sessionData.UserID &&
		reservation.OwnerID != sessionData.UserID &&
		sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your reservation"})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (s *Server) createReservation(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkInDate must be YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOutDate must be YYYY-MM-DD"})
		return
	}
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOutDate must be after checkInDate"})
		return
	}

	var guesthouse models.Guesthouse
	if err := s.db.Where("id = ? AND status = ?", req.GuesthouseID, models.GuesthouseActive).
		First(&guesthouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guesthouse not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find guesthouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sessionData, _ := GetSessionData(c)

	// Overlapping pending/confirmed bookings on the same listing conflict
	var overlapping int64
	s.db.Model(&models.Reservation{}).
		Where("guesthouse_id = ? AND status IN ? AND check_in_date < ? AND check_out_date > ?",
			guesthouse.ID,
			[]string{models.ReservationPending, models.ReservationConfirmed},
			req.CheckOutDate, req.CheckInDate).
		Count(&overlapping)
	if overlapping > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Guesthouse is not available for those dates"})
		return
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	pricePerNight, _ := strconv.ParseFloat(guesthouse.Price, 64)

	reservation := &models.Reservation{
		GuesthouseID:    guesthouse.ID,
		GuestID:         sessionData.UserID,
		OwnerID:         guesthouse.OwnerID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		NumberOfGuests:  req.NumberOfGuests,
		TotalPrice:      pricePerNight * float64(nights),
		Status:          models.ReservationPending,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.db.Create(reservation).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}

	s.logger.Info().
		Str("reservation_id", reservation.ID).
		Str("guesthouse_id", guesthouse.ID).
		Str("guest_id", sessionData.UserID).
		Msg("Reservation created")

	c.JSON(http.StatusCreated, reservation)
}

func (s *Server) cancelReservation(c *gin.Context) {
	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Canceled by guest"
	}

	sessionData, _ := GetSessionData(c)

	var reservation models.Reservation
	if err := s.db.Where("id = ?", c.Param("id")).First(&reservation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if reservation.GuestID != sessionData.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your reservation"})
		return
	}

	if reservation.Status != models.ReservationPending && reservation.Status != models.ReservationConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation cannot be cancelled in its current state"})
		return
	}

	reservation.Status = models.ReservationCancelled
	reservation.Reason = req.Reason
	if err := s.db.Save(&reservation).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to cancel reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (s *Server) listOwnerReservations(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var reservations []models.Reservation
	if err := s.db.Preload("Guesthouse").Preload("Guest").
		Where("owner_id = ?", sessionData.UserID).
		Order("created_at DESC").Find(&reservations).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list owner reservations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func (s *Server) confirmReservation(c *gin.Context) {
	s.transitionReservation(c, models.ReservationConfirmed, "")
}

func (s *Server) rejectReservation(c *gin.Context) {
	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Rejected by owner"
	}
	s.transitionReservation(c, models.ReservationCancelled, req.Reason)
}

// transitionReservation moves a pending reservation to the given status on
// behalf of the listing's owner
func (s *Server) transitionReservation(c *gin.Context, status, reason string) {
	sessionData, _ := GetSessionData(c)

	var reservation models.Reservation
	if err := s.db.Where("id = ?", c.Param("id")).First(&reservation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if reservation.OwnerID != sessionData.UserID && sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your reservation"})
		return
	}

	if reservation.Status != models.ReservationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending reservations can be updated"})
		return
	}

	reservation.Status = status
	reservation.Reason = reason
	if err := s.db.Save(&reservation).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
		return
	}

	s.logger.Info().
		Str("reservation_id", reservation.ID).
		Str("status", status).
		Msg("Reservation updated")

	c.JSON(http.StatusOK, reservation)
}
