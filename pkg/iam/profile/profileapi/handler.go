package profileapi

import (
	"github.com/Abraxas-365/careerpath/pkg/iam"
	"github.com/Abraxas-365/careerpath/pkg/iam/auth"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// UserHandlers maneja las rutas de administración de usuarios con Fiber
type UserHandlers struct {
	service *profilesrv.UserService
}

// NewUserHandlers crea un nuevo handler de usuarios
func NewUserHandlers(service *profilesrv.UserService) *UserHandlers {
	return &UserHandlers{
		service: service,
	}
}

// RegisterRoutes registra las rutas de usuarios en Fiber. La administración
// de usuarios es exclusiva de HR.
func (h *UserHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	users := router.Group("/users", authMiddleware.Authenticate())

	users.Get("/me", h.Me)

	hrOnly := authMiddleware.RequireRole(role.IsHrOffice)
	users.Get("/", hrOnly, h.ListUsers)
	users.Put("/:userId/role", hrOnly, h.AssignRole)
	users.Delete("/:userId/role", hrOnly, h.RemoveRole)
	users.Put("/:userId/active", hrOnly, h.SetActive)
}

// Me retorna la identidad y el rol del usuario autenticado
func (h *UserHandlers) Me(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	return c.JSON(fiber.Map{
		"user_id": authContext.UserID,
		"email":   authContext.Email,
		"name":    authContext.Name,
		"role":    authContext.Role,
	})
}

// ListUsers lista todos los usuarios con su rol
func (h *UserHandlers) ListUsers(c *fiber.Ctx) error {
	response, err := h.service.ListUsers(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// AssignRole asigna (o reemplaza) el rol de un usuario
func (h *UserHandlers) AssignRole(c *fiber.Ctx) error {
	var req role.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.UserID = kernel.NewUserID(c.Params("userId"))

	if err := h.service.AssignRole(c.Context(), req); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Role assigned successfully",
	})
}

// RemoveRole retira el rol de un usuario
func (h *UserHandlers) RemoveRole(c *fiber.Ctx) error {
	userID := kernel.NewUserID(c.Params("userId"))

	if err := h.service.RemoveRole(c.Context(), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Role removed successfully",
	})
}

// SetActive activa o desactiva un usuario
func (h *UserHandlers) SetActive(c *fiber.Ctx) error {
	var req profile.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := kernel.NewUserID(c.Params("userId"))
	if err := h.service.SetUserActive(c.Context(), userID, req.IsActive); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
	})
}
