package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"elfportal/internal/repositories"
	"elfportal/internal/services"
)

type MessageHandler struct {
	Channels *services.ChannelService
	Projects repositories.ProjectRepository
	Users    repositories.UserRepository
}

func NewMessageHandler(channels *services.ChannelService, projects repositories.ProjectRepository, users repositories.UserRepository) *MessageHandler {
	return &MessageHandler{Channels: channels, Projects: projects, Users: users}
}

func channelURL(channelID int64) string {
	return fmt.Sprintf("/internal/messages?channel_id=%d", channelID)
}

// List ensures every project has its channel, lists what the caller can see
// and loads the selected channel's messages when access allows.
func (h *MessageHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	ident := identity(c)

	projects, err := h.Projects.List(ctx, nil)
	if err != nil {
		log.Printf("[message][list][err] projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messaging"})
		return
	}
	for i := range projects {
		if _, err := h.Channels.EnsureProjectChannel(ctx, &projects[i]); err != nil {
			log.Printf("[message][list][err] ensure project channel project_id=%d: %v", projects[i].ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messaging"})
			return
		}
	}

	channels, err := h.Channels.ListVisible(ctx, ident)
	if err != nil {
		log.Printf("[message][list][err] channels: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messaging"})
		return
	}
	users, err := h.Users.List(ctx)
	if err != nil {
		log.Printf("[message][list][err] users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messaging"})
		return
	}

	payload := gin.H{
		"page":     "Consultant Messaging",
		"channels": channels,
		"users":    users,
		"flash":    popFlash(c),
	}

	if channelID, ok := parseID(c.Query("channel_id")); ok {
		channel, err := h.Channels.Get(ctx, ident, channelID)
		switch {
		case errors.Is(err, services.ErrNotChannelMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this channel"})
			return
		case errors.Is(err, services.ErrChannelNotFound):
			redirectWithFlash(c, "/internal/messages", "danger", "Channel not found.")
			return
		case err != nil:
			log.Printf("[message][list][err] channel_id=%d: %v", channelID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messaging"})
			return
		}
		messages, err := h.Channels.Messages(ctx, ident, channelID)
		if err != nil {
			log.Printf("[message][list][err] messages channel_id=%d: %v", channelID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messaging"})
			return
		}
		payload["channel"] = channel
		payload["messages"] = messages
	}

	c.JSON(http.StatusOK, payload)
}

func (h *MessageHandler) StartDirect(c *gin.Context) {
	recipientID, ok := parseID(c.PostForm("recipient_id"))
	if !ok {
		redirectWithFlash(c, "/internal/messages", "danger", "Pick someone to message.")
		return
	}
	channel, err := h.Channels.StartDirect(c.Request.Context(), identity(c), recipientID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDirectChannel):
			redirectWithFlash(c, "/internal/messages", "danger", "You cannot message yourself.")
		case errors.Is(err, services.ErrChannelNotFound):
			redirectWithFlash(c, "/internal/messages", "danger", "That user does not exist.")
		default:
			log.Printf("[message][direct][err] %v", err)
			redirectWithFlash(c, "/internal/messages", "danger", "Failed to open the conversation.")
		}
		return
	}
	c.Redirect(http.StatusFound, channelURL(channel.ID))
}

func (h *MessageHandler) CreateGroup(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	memberIDs := parseIDList(c.PostFormArray("member_ids"))

	channel, err := h.Channels.CreateGroup(c.Request.Context(), identity(c), name, memberIDs)
	if err != nil {
		if errors.Is(err, services.ErrGroupNameRequired) {
			redirectWithFlash(c, "/internal/messages", "danger", "Group name is required.")
			return
		}
		log.Printf("[message][group][err] %v", err)
		redirectWithFlash(c, "/internal/messages", "danger", "Failed to create the group.")
		return
	}
	c.Redirect(http.StatusFound, channelURL(channel.ID))
}

func (h *MessageHandler) Post(c *gin.Context) {
	channelID, ok := parseID(c.PostForm("channel_id"))
	if !ok {
		redirectWithFlash(c, "/internal/messages", "danger", "Invalid channel.")
		return
	}
	body := c.PostForm("body")

	if _, err := h.Channels.Post(c.Request.Context(), identity(c), channelID, body); err != nil {
		switch {
		case errors.Is(err, services.ErrNotChannelMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this channel"})
		case errors.Is(err, services.ErrEmptyMessage):
			redirectWithFlash(c, channelURL(channelID), "danger", "Message cannot be empty.")
		case errors.Is(err, services.ErrChannelNotFound):
			redirectWithFlash(c, "/internal/messages", "danger", "Channel not found.")
		default:
			log.Printf("[message][post][err] channel_id=%d: %v", channelID, err)
			redirectWithFlash(c, channelURL(channelID), "danger", "Failed to send the message.")
		}
		return
	}
	c.Redirect(http.StatusFound, channelURL(channelID))
}
