package controllers

import (
	"net/http"

	"gin-accounts-api/internal/middleware"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ProfileController handles the self-service endpoints acting on the
// authenticated user itself.
type ProfileController interface {
	Show(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type profileController struct {
	accounts services.AccountService
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(accounts services.AccountService) ProfileController {
	return &profileController{accounts: accounts}
}

// Show godoc
// @Summary Show profile
// @Description Return the authenticated user's own account
// @Tags profile
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/profile [get]
func (c *profileController) Show(ctx *gin.Context) {
	user, err := c.accounts.Profile(middleware.CurrentActor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update profile
// @Description Update the authenticated user's own name or email. A role_id
// @Description in the payload is ignored: self-service edits never change roles.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/profile [put]
func (c *profileController) Update(ctx *gin.Context) {
	var input services.UpdateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, invalidBody())
		return
	}
	user, err := c.accounts.UpdateProfile(middleware.CurrentActor(ctx), input)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete profile
// @Description Delete the authenticated user's own account; fails when the
// @Description actor is the last remaining admin
// @Tags profile
// @Produce json
// @Success 204
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/profile [delete]
func (c *profileController) Delete(ctx *gin.Context) {
	if err := c.accounts.DeleteProfile(middleware.CurrentActor(ctx)); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
