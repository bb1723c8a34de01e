package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carthatamaz/cartha/internal/models"
)

// MessageRequest represents a direct message send request
type MessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// ConversationSummary aggregates the message history with one other user
type ConversationSummary struct {
	ID              string `json:"id"`
	OtherUserID     string `json:"otherUserId"`
	OtherUserName   string `json:"otherUserName"`
	LastMessage     string `json:"lastMessage"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int64  `json:"unreadCount"`
}

// listMessages returns all messages the user sent or received, newest first
func (s *Server) listMessages(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var messages []models.Message
	err := s.db.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", sessionData.UserID, sessionData.UserID).
		Order("created_at DESC").Find(&messages).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (s *Server) createMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)

	if req.ReceiverID == sessionData.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	var receiver models.User
	if err := s.db.Where("id = ?", req.ReceiverID).First(&receiver).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find recipient")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	message := &models.Message{
		SenderID:   sessionData.UserID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}

	if err := s.db.Create(message).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (s *Server) markMessageRead(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var message models.Message
	if err := s.db.Where("id = ?", c.Param("id")).First(&message).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Only the recipient can mark a message read
	if message.ReceiverID != sessionData.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your message"})
		return
	}

	message.IsRead = true
	if err := s.db.Save(&message).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to mark message read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, message)
}

func (s *Server) unreadMessageCount(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var count int64
	err := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", sessionData.UserID, false).
		Count(&count).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count unread messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// listConversations groups the user's messages by the other participant
func (s *Server) listConversations(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var messages []models.Message
	err := s.db.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", sessionData.UserID, sessionData.UserID).
		Order("created_at DESC").Find(&messages).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Messages are ordered newest-first, so the first message seen for a
	// given partner is the conversation's latest
	byPartner := make(map[string]*ConversationSummary)
	order := []string{}
	for _, m := range messages {
		otherID := m.SenderID
		other := m.Sender
		if otherID == sessionData.UserID {
			otherID = m.ReceiverID
			other = m.Receiver
		}

		summary, seen := byPartner[otherID]
		if !seen {
			name := ""
			if other != nil {
				name = other.FullName
				if name == "" {
					name = other.Email
				}
			}
			summary = &ConversationSummary{
				ID:              otherID,
				OtherUserID:     otherID,
				OtherUserName:   name,
				LastMessage:     m.Content,
				LastMessageTime: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			}
			byPartner[otherID] = summary
			order = append(order, otherID)
		}

		if m.ReceiverID == sessionData.UserID && !m.IsRead {
			summary.UnreadCount++
		}
	}

	conversations := make([]ConversationSummary, 0, len(order))
	for _, id := range order {
		conversations = append(conversations, *byPartner[id])
	}

	c.JSON(http.StatusOK, conversations)
}
