package controllers

import (
	"net/http"

	"gin-accounts-api/internal/middleware"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController handles the admin-facing user management endpoints
type UserController interface {
	// GetAllUsers lists all users with their role
	GetAllUsers(c *gin.Context)
	// GetUserByID retrieves a user by its ID
	GetUserByID(c *gin.Context)
	// CreateUser creates a new user with an explicit role
	CreateUser(c *gin.Context)
	// UpdateUser updates a user's name, email or role
	UpdateUser(c *gin.Context)
	// DeleteUser deletes a user
	DeleteUser(c *gin.Context)
}

type userController struct {
	accounts services.AccountService
}

// NewUserController creates a new instance of UserController
func NewUserController(accounts services.AccountService) UserController {
	return &userController{accounts: accounts}
}

// GetAllUsers godoc
// @Summary List users
// @Description List all users with their role (admin only)
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/users [get]
func (c *userController) GetAllUsers(ctx *gin.Context) {
	users, err := c.accounts.ListUsers(middleware.CurrentActor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// GetUserByID godoc
// @Summary Get user
// @Description Get a single user by id (admin only)
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/users/{id} [get]
func (c *userController) GetUserByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	user, err := c.accounts.GetUser(middleware.CurrentActor(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// CreateUser godoc
// @Summary Create user
// @Description Create a user with an explicit role (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserInput true "User payload"
// @Success 201 {object} models.User
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/users [post]
func (c *userController) CreateUser(ctx *gin.Context) {
	var input services.CreateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, invalidBody())
		return
	}
	user, err := c.accounts.CreateUser(middleware.CurrentActor(ctx), input)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update user
// @Description Update a user's name, email or role (admin only; the role
// @Description field is ignored when a user edits themselves)
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/users/{id} [put]
func (c *userController) UpdateUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var input services.UpdateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, invalidBody())
		return
	}
	user, err := c.accounts.UpdateUser(middleware.CurrentActor(ctx), id, input)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Description Delete a user; the last remaining admin cannot be deleted
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/users/{id} [delete]
func (c *userController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.accounts.DeleteUser(middleware.CurrentActor(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
