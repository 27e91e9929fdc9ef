package auth

import "github.com/google/uuid"

// HasUserUUID reports whether Session.GetUserUUID will succeed.
func HasUserUUID(session Session) bool {
	if session == nil {
		return false
	}
	_, err := session.GetUserUUID()
	return err == nil
}

// TenantUUID parses the session's tenant identifier. The second return is
// false when the session carries no parseable tenant.
func TenantUUID(session Session) (uuid.UUID, bool) {
	if session == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(session.GetTenantID())
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
