package controllers

import (
	"net/http"
	"time"

	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

type AuthController struct {
	accounts    services.AccountService
	userService services.UserService
	jwtSecret   []byte
}

func NewAuthController(accounts services.AccountService, userService services.UserService, jwtSecret string) *AuthController {
	return &AuthController{
		accounts:    accounts,
		userService: userService,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Register godoc
// @Summary Register
// @Description Self-register a new account; the user always gets the default role
// @Tags auth
// @Accept json
// @Produce json
// @Param account body services.RegisterInput true "Registration payload"
// @Success 201 {object} models.User
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/v1/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, invalidBody())
		return
	}

	user, err := ac.accounts.Register(input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login
// @Description Exchange email and password for a Bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object true "Email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.APIError
// @Router /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, invalidBody())
		return
	}

	user, err := ac.userService.GetUserByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrInvalidCredentials, "Invalid email or password"))
		return
	}

	// Generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  user.ID,
		"role": user.Role.Name,
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString(ac.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Token generation failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"token_type":   "Bearer",
		"expires_in":   int(tokenTTL.Seconds()),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role.Name,
		},
	})
}
