// internal/server/handlers_profile.go
package server

import (
	"github.com/gofiber/fiber/v2"

	"francis-backend/internal/common/auth"
	"francis-backend/internal/common/errors"
	"francis-backend/internal/models"
)

type ProfileHandler struct {
	container *Container
}

func NewProfileHandler(c *Container) *ProfileHandler {
	return &ProfileHandler{container: c}
}

// requestUser returns the authenticated user stored by the auth middleware.
func requestUser(ctx *fiber.Ctx) (*auth.User, error) {
	user, ok := ctx.Locals(localsUserKey).(*auth.User)
	if !ok || user == nil {
		return nil, errors.NewUnauthorizedError("utilisateur non authentifié")
	}
	return user, nil
}

// Users may only touch their own profile record.
func (h *ProfileHandler) authorize(ctx *fiber.Ctx) (string, error) {
	user, err := requestUser(ctx)
	if err != nil {
		return "", err
	}
	id := ctx.Params("id")
	if id != user.ID {
		return "", errors.NewForbiddenError("ce profil appartient à un autre utilisateur")
	}
	return id, nil
}

func (h *ProfileHandler) Get(ctx *fiber.Ctx) error {
	id, err := h.authorize(ctx)
	if err != nil {
		return err
	}

	profile, err := h.container.Users.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(profile)
}

func (h *ProfileHandler) Save(ctx *fiber.Ctx) error {
	id, err := h.authorize(ctx)
	if err != nil {
		return err
	}

	var profile models.UserProfile
	if err := ctx.BodyParser(&profile); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	profile.ID = id

	if err := h.container.Users.Upsert(ctx.UserContext(), &profile); err != nil {
		return err
	}
	return ctx.JSON(profile)
}

func (h *ProfileHandler) Patch(ctx *fiber.Ctx) error {
	id, err := h.authorize(ctx)
	if err != nil {
		return err
	}

	var fields map[string]interface{}
	if err := ctx.BodyParser(&fields); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	if len(fields) == 0 {
		return errors.NewValidationFailedError("aucun champ à mettre à jour")
	}

	profile, err := h.container.Users.Patch(ctx.UserContext(), id, fields)
	if err != nil {
		return err
	}
	return ctx.JSON(profile)
}
