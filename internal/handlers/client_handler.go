package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

type ClientHandler struct {
	Clients repositories.ClientRepository
}

func NewClientHandler(clients repositories.ClientRepository) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.Clients.List(c.Request.Context())
	if err != nil {
		log.Printf("[client][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":    "Client Registry",
		"clients": clients,
		"flash":   popFlash(c),
	})
}

func (h *ClientHandler) Add(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		redirectWithFlash(c, "/internal/clients", "danger", "Client name is required.")
		return
	}
	status := strings.TrimSpace(c.PostForm("status"))
	if status == "" {
		status = "active"
	}
	client := &models.Client{
		Name:         name,
		Industry:     strings.TrimSpace(c.PostForm("industry")),
		AccountOwner: strings.TrimSpace(c.PostForm("account_owner")),
		Status:       status,
		Notes:        strings.TrimSpace(c.PostForm("notes")),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Clients.Store(c.Request.Context(), client); err != nil {
		log.Printf("[client][add][err] %v", err)
		redirectWithFlash(c, "/internal/clients", "danger", "Failed to save the client.")
		return
	}
	log.Printf("[client][add][ok] id=%d name=%q", client.ID, client.Name)
	redirectWithFlash(c, "/internal/clients", "success", "Client added.")
}
