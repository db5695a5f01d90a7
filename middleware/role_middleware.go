package middleware

import (
	"github.com/gofiber/fiber/v2"

	rolehandler "github.com/bytesandbalance/jovyne-sub000/lib/role"
	authutils "github.com/bytesandbalance/jovyne-sub000/lib/utils/auth-utils"
	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
)

func GetAccountID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if id, ok := sub.(string); ok {
			return id
		}
	}
	return ""
}

// GetRoleRef reads the role-scoped identity from the token claims. Lifecycle
// handlers receive it as a parameter and never look it up again mid-call.
func GetRoleRef(ctx *fiber.Ctx) models.RoleRef {
	claims := authutils.GetClaims(ctx)
	ref := models.RoleRef{}
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			ref.Kind = models.RoleKind(stringRole)
		}
	}
	if roleID, exist := claims["role_id"]; exist {
		if id, ok := roleID.(string); ok {
			ref.RoleID = id
		}
	}
	return ref
}

// RoleScopeRequired rejects tokens without a resolved role identity and
// re-verifies the claimed role against the role tables on every request, so a
// token outliving its role row stops working immediately.
func RoleScopeRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		ref := GetRoleRef(ctx)
		if ref.IsZero() || !ref.Kind.IsValid() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("token carries no role identity"))
		}
		resolved, err := rolehandler.Instance.Resolve(GetAccountID(ctx))
		if err != nil {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("role could not be resolved"))
		}
		if !resolved.Is(ref.Kind, ref.RoleID) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("token role does not match the account"))
		}
		return ctx.Next()
	}
}

// RoleRequired guards a route group to the given role kinds.
func RoleRequired(kinds ...models.RoleKind) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		ref := GetRoleRef(ctx)
		for _, kind := range kinds {
			if ref.Kind == kind && ref.RoleID != "" {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not available for this role"))
	}
}
