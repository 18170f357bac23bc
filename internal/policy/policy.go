// Package policy decides who may do what with media, contact messages and
// user records. Nothing in here touches storage; callers look the resource
// up first and report a missing one as not found before asking.
package policy

import "bitwise74/gallery-api/internal/model"

type Action int

const (
	Read Action = iota
	Update
	Delete
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}

	return "unknown"
}

// Actor is the authenticated identity behind a request
type Actor struct {
	ID   string
	Role model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) owns(ownerID string) bool {
	return a.ID != "" && a.ID == ownerID
}

// CanMedia reports whether actor may perform action on a media item owned
// by ownerID. Sharing only ever grants reads.
func CanMedia(actor Actor, ownerID string, shared bool, action Action) bool {
	switch action {
	case Read:
		return actor.IsAdmin() || actor.owns(ownerID) || shared
	case Update, Delete:
		return actor.owns(ownerID) || actor.IsAdmin()
	}

	return false
}

// CanContact reports whether actor may perform action on a contact message.
// submitterID is nil for anonymous messages, which only an admin may
// delete and nobody may edit.
func CanContact(actor Actor, submitterID *string, action Action) bool {
	owner := submitterID != nil && actor.owns(*submitterID)

	switch action {
	case Read, Update:
		return owner
	case Delete:
		return owner || actor.IsAdmin()
	}

	return false
}

// CanManageUsers guards the admin user surface
func CanManageUsers(actor Actor) bool {
	return actor.IsAdmin()
}

// Scope restricts a listing. All means no restriction, otherwise only
// records owned by OwnerID (plus shared ones when IncludeShared is set)
// are visible.
type Scope struct {
	All           bool
	OwnerID       string
	IncludeShared bool
}

// MediaScope is the visibility set for media listings and bulk downloads
func MediaScope(actor Actor) Scope {
	if actor.IsAdmin() {
		return Scope{All: true}
	}

	return Scope{OwnerID: actor.ID, IncludeShared: true}
}

// ContactScope is the visibility set for contact message listings. A user
// only ever sees their own messages, an admin sees all of them.
func ContactScope(actor Actor) Scope {
	if actor.IsAdmin() {
		return Scope{All: true}
	}

	return OwnScope(actor)
}

// OwnScope restricts a listing to records the actor submitted, whatever
// their role
func OwnScope(actor Actor) Scope {
	return Scope{OwnerID: actor.ID}
}
