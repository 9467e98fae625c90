package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/pkg/jwt"
)

// Locals keys para los claims del token y el usuario resuelto.
const (
	LocalUserID   = "user_id"
	LocalRole     = "role"
	LocalBranchID = "branch_id"
	LocalUser     = "user"
)

// UserLookup resuelve el usuario vigente a partir del id del token.
type UserLookup interface {
	GetByID(id string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, Role y BranchID a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, branchID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		c.Locals(LocalBranchID, branchID)
		return c.Next()
	}
}

// LoadUser carga el usuario del token desde el catálogo. Un usuario eliminado después de emitir
// el token queda rechazado.
func LoadUser(users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := users.GetByID(GetUserID(c))
		if err != nil || u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNKNOWN_USER", Message: "el usuario del token ya no existe"})
		}
		c.Locals(LocalUser, *u)
		// el rol y la sede vigentes prevalecen sobre los del token
		c.Locals(LocalRole, u.Role)
		c.Locals(LocalBranchID, u.BranchID)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permisos para este recurso"})
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetBranchID devuelve la sede del contexto (vacía para Admin).
func GetBranchID(c *fiber.Ctx) string { return localString(c, LocalBranchID) }

// GetUser usuario autenticado. Sin LoadUser se arma solo con los claims del token.
func GetUser(c *fiber.Ctx) entity.User {
	if u, ok := c.Locals(LocalUser).(entity.User); ok {
		return u
	}
	return entity.User{ID: GetUserID(c), Role: GetRole(c), BranchID: GetBranchID(c)}
}
