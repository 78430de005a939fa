package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"elfportal/internal/services"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		log.Printf("[user][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":  "Team",
		"users": users,
		"flash": popFlash(c),
	})
}

func (h *UserHandler) Add(c *gin.Context) {
	user, err := h.Users.Create(c.Request.Context(),
		c.PostForm("name"), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserFieldsRequired),
			errors.Is(err, services.ErrEmailTaken):
			redirectWithFlash(c, "/internal/users", "danger", err.Error())
		default:
			log.Printf("[user][add][err] %v", err)
			redirectWithFlash(c, "/internal/users", "danger", "Failed to create the user.")
		}
		return
	}
	log.Printf("[user][add][ok] id=%d email=%s", user.ID, user.Email)
	redirectWithFlash(c, "/internal/users", "success", "User created.")
}
