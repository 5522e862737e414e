package domain

// Capability is what an actor wants to do with an asset
type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityWrite  Capability = "write"
	CapabilityDelete Capability = "delete"
)

// Permission names stored in the permissions table
const (
	PermissionManageAnyAsset = "video:delete_any"
	PermissionManageLibrary  = "library:manage"
)

// GrantKind is the reason access was granted, or denied
type GrantKind string

const (
	GrantOwner      GrantKind = "owner"
	GrantAdmin      GrantKind = "admin"
	GrantSharedRead GrantKind = "shared_read"
	GrantDenied     GrantKind = "denied"
)

// Grant is computed per request and never stored
type Grant struct {
	Kind GrantKind
}

// Allowed reports whether the grant lets the call through
func (g Grant) Allowed() bool {
	return g.Kind != "" && g.Kind != GrantDenied
}

// Denied is the zero-information deny grant
var Denied = Grant{Kind: GrantDenied}

// Actor is a resolved user and the permissions its roles carry
type Actor struct {
	ID          int64
	Email       string
	Permissions map[string]struct{}
}

// NewActor builds an actor from a permission list
func NewActor(id int64, email string, permissions []string) *Actor {
	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return &Actor{ID: id, Email: email, Permissions: set}
}

// Has reports whether the actor holds permission
func (a *Actor) Has(permission string) bool {
	if a == nil {
		return false
	}
	_, ok := a.Permissions[permission]
	return ok
}
