package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/auth"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/types"
	"github.com/plannr-dev/plannr/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  types.UserResponse `json:"user"`
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Name, valid email and a password of at least 8 characters are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", req.Email).First(&existingUser).Error

	if err == nil {
		respondError(ctx, http.StatusBadRequest, "Email already exists")
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	newUser := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Avatar:       models.DefaultAvatar,
	}

	if err := newUser.SetPrefs(models.DefaultPreferences()); err != nil {
		log.Printf("Failed to encode default preferences: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := auth.GenerateJWT(newUser.ID, newUser.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondData(ctx, http.StatusCreated, AuthResponse{
		Token: token,
		User: types.UserResponse{
			ID:     newUser.ID,
			Name:   newUser.Name,
			Email:  newUser.Email,
			Avatar: newUser.Avatar,
		},
	})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Valid email and password are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(ctx, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondData(ctx, http.StatusOK, AuthResponse{
		Token: token,
		User: types.UserResponse{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: user.Avatar,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not found")
		return
	}

	respondData(ctx, http.StatusOK, user)
}
