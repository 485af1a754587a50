package domain

import (
	"sort"
	"time"
)

// Role groups a set of permission strings such as "get:regions".
type Role struct {
	ID          int64
	Name        string
	Description string
	Permissions []string
}

// HasPermission reports whether the role grants permission.
func (r Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// User is an account able to log in. Email and UserName are globally unique.
type User struct {
	ID             int64
	UserName       string
	Email          string
	HashedPassword string
	RoleID         int64
	Active         bool
	CreatedAt      time.Time
}

// UserView is the short representation of an account with its role.
type UserView struct {
	UserID      int64    `json:"userid"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// NewUserView builds the view of u with the permissions of role.
func NewUserView(u User, role Role) UserView {
	perms := make([]string, len(role.Permissions))
	copy(perms, role.Permissions)
	return UserView{
		UserID:      u.ID,
		Username:    u.UserName,
		Email:       u.Email,
		RoleName:    role.Name,
		Permissions: perms,
	}
}

// Resources protected by permissions.
var Resources = []string{
	"regions",
	"departements",
	"arrondissements",
	"fonctions",
	"typestructures",
	"structures",
	"membres",
}

// Actions combined with a resource to form a permission.
var Actions = []string{"get", "post", "put", "delete"}

// PermissionGetUser allows reading one's own profile.
const PermissionGetUser = "get:user"

// Permission builds a permission string, e.g. Permission("get", "regions").
func Permission(action, resource string) string {
	return action + ":" + resource
}

// AllPermissions lists every permission known to the API, sorted.
func AllPermissions() []string {
	perms := []string{PermissionGetUser}
	for _, res := range Resources {
		for _, act := range Actions {
			perms = append(perms, Permission(act, res))
		}
	}
	sort.Strings(perms)
	return perms
}
