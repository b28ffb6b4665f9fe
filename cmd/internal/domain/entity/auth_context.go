package entity

// AuthContext is the resolved caller of an operation. Exactly one of
// (User, Tenant) or SystemUser is set.
type AuthContext struct {
	User       *User
	Tenant     *Tenant
	SystemUser *SystemUser
}

func (a *AuthContext) IsTenant() bool {
	return a != nil && a.User != nil && a.Tenant != nil
}

func (a *AuthContext) IsSystem() bool {
	return a != nil && a.SystemUser != nil
}

// TenantID is the only source of tenant ids for queries.
func (a *AuthContext) TenantID() int64 {
	if !a.IsTenant() {
		return 0
	}
	return a.Tenant.ID
}

func (a *AuthContext) UserID() int64 {
	if !a.IsTenant() {
		return 0
	}
	return a.User.ID
}

func (a *AuthContext) Role() Role {
	if !a.IsTenant() {
		return ""
	}
	return a.User.Role
}
