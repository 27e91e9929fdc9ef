package jwtware

import (
	"github.com/golang-jwt/jwt/v5"
)

// roleRank mirrors the role hierarchy from the auth package. The middleware
// cannot import auth without creating a cycle, so the ordering lives here too.
var roleRank = map[string]int{
	"cashier":     0,
	"manager":     1,
	"owner":       2,
	"super_admin": 3,
}

// mapClaims adapts raw jwt.MapClaims to the AuthClaims interface so RBAC
// checks and validation listeners work on the keyfunc parsing path.
type mapClaims struct {
	claims jwt.MapClaims
}

func adaptMapClaims(token *jwt.Token) AuthClaims {
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		mc = jwt.MapClaims{}
	}
	return &mapClaims{claims: mc}
}

func (m *mapClaims) str(key string) string {
	if v, ok := m.claims[key].(string); ok {
		return v
	}
	return ""
}

func (m *mapClaims) Subject() string {
	return m.str("sub")
}

func (m *mapClaims) UserID() string {
	if uid := m.str("uid"); uid != "" {
		return uid
	}
	return m.Subject()
}

func (m *mapClaims) TenantID() string {
	return m.str("tenant")
}

func (m *mapClaims) Role() string {
	return m.str("role")
}

func (m *mapClaims) HasRole(role string) bool {
	return m.Role() == role
}

func (m *mapClaims) IsAtLeast(minRole string) bool {
	rank, ok := roleRank[m.Role()]
	if !ok {
		return false
	}
	minRank, ok := roleRank[minRole]
	if !ok {
		return false
	}
	return rank >= minRank
}

func (m *mapClaims) CanRead(string) bool {
	_, ok := roleRank[m.Role()]
	return ok
}

func (m *mapClaims) CanEdit(string) bool {
	_, ok := roleRank[m.Role()]
	return ok
}

func (m *mapClaims) CanCreate(string) bool {
	return m.IsAtLeast("manager")
}

func (m *mapClaims) CanDelete(string) bool {
	return m.IsAtLeast("owner")
}
