package middleware

// actor.go bridges the identity stored by JWTAuth and the service
// layer's Actor value.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/service"
)

// CurrentActor rebuilds the caller's identity from context values set
// by JWTAuth. The boolean is false when the request was not
// authenticated (route registered without JWTAuth).
func CurrentActor(c echo.Context) (service.Actor, bool) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return service.Actor{}, false
	}
	role, _ := c.Get("role").(string)
	name, _ := c.Get("username").(string)
	return service.Actor{ID: id, Role: role, Username: name}, true
}

// rateKeyUserID renders the authenticated user for rate-limit keys;
// "anon" when the route is unauthenticated.
func rateKeyUserID(c echo.Context) string {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
