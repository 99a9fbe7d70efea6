package controllers

import (
	"net/http"

	"gin-accounts-api/internal/middleware"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RoleController handles the admin-facing role management endpoints
type RoleController interface {
	GetAllRoles(c *gin.Context)
	GetRoleByID(c *gin.Context)
	CreateRole(c *gin.Context)
	UpdateRole(c *gin.Context)
	DeleteRole(c *gin.Context)
}

type roleController struct {
	accounts services.AccountService
}

// NewRoleController creates a new instance of RoleController
func NewRoleController(accounts services.AccountService) RoleController {
	return &roleController{accounts: accounts}
}

type rolePayload struct {
	Name string `json:"name" binding:"required"`
}

// GetAllRoles godoc
// @Summary List roles
// @Description List all roles (admin only)
// @Tags roles
// @Produce json
// @Success 200 {array} models.Role
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/roles [get]
func (c *roleController) GetAllRoles(ctx *gin.Context) {
	roles, err := c.accounts.ListRoles(middleware.CurrentActor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, roles)
}

// GetRoleByID godoc
// @Summary Get role
// @Description Get a single role by id (admin only)
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} models.Role
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/roles/{id} [get]
func (c *roleController) GetRoleByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	role, err := c.accounts.GetRole(middleware.CurrentActor(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, role)
}

// CreateRole godoc
// @Summary Create role
// @Description Create a role with a unique name (admin only)
// @Tags roles
// @Accept json
// @Produce json
// @Param role body rolePayload true "Role payload"
// @Success 201 {object} models.Role
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/roles [post]
func (c *roleController) CreateRole(ctx *gin.Context) {
	var payload rolePayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, invalidBody())
		return
	}
	role, err := c.accounts.CreateRole(middleware.CurrentActor(ctx), payload.Name)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, role)
}

// UpdateRole godoc
// @Summary Rename role
// @Description Rename a role; the new name must stay unique (admin only)
// @Tags roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param role body rolePayload true "Role payload"
// @Success 200 {object} models.Role
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/roles/{id} [put]
func (c *roleController) UpdateRole(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var payload rolePayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, invalidBody())
		return
	}
	role, err := c.accounts.UpdateRole(middleware.CurrentActor(ctx), id, payload.Name)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Delete role
// @Description Delete a role that no user references (admin only)
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/roles/{id} [delete]
func (c *roleController) DeleteRole(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.accounts.DeleteRole(middleware.CurrentActor(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
