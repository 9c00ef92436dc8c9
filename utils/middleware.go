package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// DefaultCompanyID is the single-tenant deployment fallback used when the
// access token carries no company claim. The services never see this
// default; it is resolved here, at the HTTP boundary.
const DefaultCompanyID uint = 1

// UserIDFromTokenMiddleware extracts the staff user id from the JWT and
// stores it in the request context.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// CompanyIDMiddleware resolves the tenant from the access token claim,
// falling back to DefaultCompanyID for single-tenant deployments.
func CompanyIDMiddleware(ctx iris.Context) {
	companyID := DefaultCompanyID
	if tok := jwt.Get(ctx); tok != nil {
		if claims, ok := tok.(*AccessToken); ok && claims.CompanyID != 0 {
			companyID = claims.CompanyID
		}
	}
	ctx.Values().Set("companyID", companyID)
	ctx.Next()
}

// CompanyID reads the tenant id resolved by CompanyIDMiddleware.
func CompanyID(ctx iris.Context) uint {
	if v := ctx.Values().Get("companyID"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return DefaultCompanyID
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
