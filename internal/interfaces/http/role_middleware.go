package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// Headers de identidad. La autenticación real vive en el gateway; este servicio
// confía en los headers que el gateway inyecta.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

// RequireIdentity valida los headers de identidad y extrae UserID y Role a c.Locals.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawID := c.Get(HeaderUserID)
		role := c.Get(HeaderRole)
		if rawID == "" || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_IDENTITY", Message: "headers X-User-Id y X-User-Role requeridos"})
		}
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_IDENTITY", Message: "X-User-Id inválido"})
		}
		if !entity.IsValidRole(role) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_IDENTITY", Message: "X-User-Role inválido"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados (después de RequireIdentity).
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		if !allowed[GetRole(c)] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// RequireStaff permite solo roles de personal (tsu, sr, ops_manager).
func RequireStaff() fiber.Handler {
	return RequireRole(entity.RoleTSU, entity.RoleSR, entity.RoleOpsManager)
}

// GetUserID devuelve el UserID del contexto (después de RequireIdentity).
func GetUserID(c *fiber.Ctx) int64 {
	v := c.Locals(LocalUserID)
	if v == nil {
		return 0
	}
	id, _ := v.(int64)
	return id
}

// GetRole devuelve el rol del contexto (después de RequireIdentity).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// IsStaff indica si el rol del contexto es de personal.
func IsStaff(c *fiber.Ctx) bool {
	switch GetRole(c) {
	case entity.RoleTSU, entity.RoleSR, entity.RoleOpsManager:
		return true
	}
	return false
}
