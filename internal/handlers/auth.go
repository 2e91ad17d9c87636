package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/state"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// LoginView reports the current session so the client can skip the form
// when it is already signed in.
func (h HandlerSet) LoginView(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Auth.Snapshot())
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.Auth.Login(actionContext(c), models.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.store.Auth.Snapshot())
}

func (h HandlerSet) SignUp(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.Auth.Register(actionContext(c), models.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.store.Logout(actionContext(c))
	c.JSON(http.StatusOK, h.store.Auth.Snapshot())
}

func (h HandlerSet) ProfileView(c *gin.Context) {
	// A failed refresh still renders whatever profile is held.
	_, _ = h.store.Auth.FetchProfile(actionContext(c))
	c.JSON(http.StatusOK, h.store.Auth.Snapshot())
}

type profileRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.Auth.UpdateProfile(actionContext(c), models.ProfileUpdate{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.store.Auth.Snapshot())
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	err := h.store.Auth.ChangePassword(actionContext(c), models.PasswordChange{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": state.StatusSucceeded})
}
