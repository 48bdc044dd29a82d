package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// conversationSummary is one entry of a participant's conversation list.
type conversationSummary struct {
	PartnerID   uint           `json:"partner_id"`
	PartnerName string         `json:"partner_name"`
	LastMessage models.Message `json:"last_message"`
	UnreadCount int64          `json:"unread_count"`
}

// ClientListConversations handles GET /api/v1/client/messages
func ClientListConversations(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	listConversations(c, client.ID, models.ParticipantClient)
}

// ClientGetThread handles GET /api/v1/client/messages/:id - the message
// thread with a tailor. Fetching the thread marks its messages read.
func ClientGetThread(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	partnerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	getThread(c, client.ID, models.ParticipantClient, partnerID, models.ParticipantTailor)
}

// ClientSendMessage handles POST /api/v1/client/messages - sends a message
// to a tailor.
func ClientSendMessage(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "receiver_id and text are required",
			},
		})
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.First(&tailor, req.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	sendMessage(c, client.ID, models.ParticipantClient, tailor.ID, models.ParticipantTailor, req.Text)
}

// ClientUnreadMessageCount handles GET /api/v1/client/messages/unread-count
func ClientUnreadMessageCount(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	unreadMessageCount(c, client.ID, models.ParticipantClient)
}

// TailorListConversations handles GET /api/v1/tailor/messages
func TailorListConversations(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	listConversations(c, tailor.ID, models.ParticipantTailor)
}

// TailorGetThread handles GET /api/v1/tailor/messages/:id - the message
// thread with a client. Fetching the thread marks its messages read.
func TailorGetThread(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	partnerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	getThread(c, tailor.ID, models.ParticipantTailor, partnerID, models.ParticipantClient)
}

// TailorSendMessage handles POST /api/v1/tailor/messages - sends a message
// to a client.
func TailorSendMessage(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "receiver_id and text are required",
			},
		})
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, req.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	sendMessage(c, tailor.ID, models.ParticipantTailor, client.ID, models.ParticipantClient, req.Text)
}

// TailorUnreadMessageCount handles GET /api/v1/tailor/messages/unread-count
func TailorUnreadMessageCount(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	unreadMessageCount(c, tailor.ID, models.ParticipantTailor)
}

func listConversations(c *gin.Context, selfID uint, selfType string) {
	db := config.GetDB()
	var messages []models.Message
	if err := db.Where(
		"(sender_id = ? AND sender_type = ?) OR (receiver_id = ? AND receiver_type = ?)",
		selfID, selfType, selfID, selfType,
	).Order("sent_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	// Messages are newest-first, so the first one seen per partner is the
	// latest in that conversation.
	summaries := []conversationSummary{}
	index := make(map[uint]int)
	for _, msg := range messages {
		partnerID := msg.SenderID
		if msg.SenderID == selfID && msg.SenderType == selfType {
			partnerID = msg.ReceiverID
		}

		i, seen := index[partnerID]
		if !seen {
			index[partnerID] = len(summaries)
			summaries = append(summaries, conversationSummary{
				PartnerID:   partnerID,
				PartnerName: partnerDisplayName(db, selfType, partnerID),
				LastMessage: msg,
			})
			i = index[partnerID]
		}
		if msg.ReceiverID == selfID && msg.ReceiverType == selfType && !msg.IsRead {
			summaries[i].UnreadCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

func getThread(c *gin.Context, selfID uint, selfType string, partnerID uint, partnerType string) {
	db := config.GetDB()
	var messages []models.Message
	if err := db.Where(
		"(sender_id = ? AND sender_type = ? AND receiver_id = ? AND receiver_type = ?) OR "+
			"(sender_id = ? AND sender_type = ? AND receiver_id = ? AND receiver_type = ?)",
		selfID, selfType, partnerID, partnerType,
		partnerID, partnerType, selfID, selfType,
	).Order("sent_at ASC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	if err := db.Model(&models.Message{}).
		Where("sender_id = ? AND sender_type = ? AND receiver_id = ? AND receiver_type = ? AND is_read = ?",
			partnerID, partnerType, selfID, selfType, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to mark messages read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

func sendMessage(c *gin.Context, senderID uint, senderType string, receiverID uint, receiverType, text string) {
	message := models.Message{
		SenderID:     senderID,
		SenderType:   senderType,
		ReceiverID:   receiverID,
		ReceiverType: receiverType,
		Text:         text,
		SentAt:       time.Now(),
	}

	if err := config.GetDB().Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to send message",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

func unreadMessageCount(c *gin.Context, selfID uint, selfType string) {
	var count int64
	if err := config.GetDB().Model(&models.Message{}).
		Where("receiver_id = ? AND receiver_type = ? AND is_read = ?", selfID, selfType, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count unread messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread_count": count},
	})
}

// partnerDisplayName resolves the other participant's display name. selfType
// determines which table the partner lives in.
func partnerDisplayName(db *gorm.DB, selfType string, partnerID uint) string {
	if selfType == models.ParticipantClient {
		var tailor models.Tailor
		if err := db.First(&tailor, partnerID).Error; err != nil {
			return ""
		}
		return tailor.FirstName + " " + tailor.LastName
	}

	var client models.Client
	if err := db.First(&client, partnerID).Error; err != nil {
		return ""
	}
	return client.FirstName + " " + client.LastName
}
