package auth

import (
	"strings"

	"github.com/Abraxas-365/careerpath/pkg/iam"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware valida el JWT entrante y construye el AuthContext que
// viaja explícitamente al resto de capas (el rol se resuelve contra la BD)
type TokenMiddleware struct {
	tokenService TokenService
	roleRepo     role.RoleRepository
	profileRepo  profile.ProfileRepository
}

// NewTokenMiddleware crea el middleware de autenticación
func NewTokenMiddleware(tokenService TokenService, roleRepo role.RoleRepository, profileRepo profile.ProfileRepository) *TokenMiddleware {
	return &TokenMiddleware{
		tokenService: tokenService,
		roleRepo:     roleRepo,
		profileRepo:  profileRepo,
	}
}

// Authenticate valida el token (header Bearer o cookie) y adjunta el
// AuthContext. Los usuarios desactivados quedan bloqueados aunque su token
// siga siendo válido.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return iam.ErrUnauthorized()
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		// Un perfil aún no proyectado no bloquea; uno desactivado sí
		if p, err := m.profileRepo.FindByUser(c.Context(), claims.UserID); err == nil && !p.IsActive {
			return iam.ErrInactiveUser()
		}

		userRole, err := m.roleRepo.FindByUser(c.Context(), claims.UserID)
		if err != nil {
			// Sin rol el usuario sigue autenticado, solo pierde permisos
			userRole = role.RoleNone
		}

		userID := claims.UserID
		authContext := &kernel.AuthContext{
			UserID: &userID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   string(userRole),
		}

		c.Locals("auth", authContext)
		return c.Next()
	}
}

// RequireRole exige que el rol actual cumpla el predicado dado
func (m *TokenMiddleware) RequireRole(allowed func(role.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !allowed(role.Parse(authContext.Role)) {
			return iam.ErrForbidden().WithDetail("role", authContext.Role)
		}

		return c.Next()
	}
}

// GetAuthContext recupera el AuthContext adjuntado por el middleware
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals("auth").(*kernel.AuthContext)
	return authContext, ok
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}

	return c.Cookies("access_token")
}
