package policy

import (
	"testing"

	"bitwise74/gallery-api/internal/model"

	"github.com/stretchr/testify/assert"
)

var (
	owner    = Actor{ID: "owner", Role: model.RoleUser}
	stranger = Actor{ID: "stranger", Role: model.RoleUser}
	admin    = Actor{ID: "admin", Role: model.RoleAdmin}
	nobody   = Actor{}
)

func TestCanMedia(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		shared bool
		action Action
		want   bool
	}{
		{"owner reads private", owner, false, Read, true},
		{"owner updates private", owner, false, Update, true},
		{"owner deletes private", owner, false, Delete, true},
		{"stranger reads private", stranger, false, Read, false},
		{"stranger updates private", stranger, false, Update, false},
		{"stranger deletes private", stranger, false, Delete, false},
		{"stranger reads shared", stranger, true, Read, true},
		{"stranger updates shared", stranger, true, Update, false},
		{"stranger deletes shared", stranger, true, Delete, false},
		{"admin reads private", admin, false, Read, true},
		{"admin updates private", admin, false, Update, true},
		{"admin deletes private", admin, false, Delete, true},
		{"empty actor never owns", nobody, false, Read, false},
		{"unknown action", owner, true, Action(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMedia(tt.actor, "owner", tt.shared, tt.action))
		})
	}
}

func TestCanMedia_EmptyOwnerDoesNotMatchEmptyActor(t *testing.T) {
	assert.False(t, CanMedia(nobody, "", false, Update))
}

func TestCanContact(t *testing.T) {
	ownerID := "owner"

	tests := []struct {
		name      string
		actor     Actor
		submitter *string
		action    Action
		want      bool
	}{
		{"owner reads", owner, &ownerID, Read, true},
		{"owner updates", owner, &ownerID, Update, true},
		{"owner deletes", owner, &ownerID, Delete, true},
		{"stranger updates", stranger, &ownerID, Update, false},
		{"stranger deletes", stranger, &ownerID, Delete, false},
		{"admin can't edit someone else's message", admin, &ownerID, Update, false},
		{"admin deletes", admin, &ownerID, Delete, true},
		{"anonymous message can't be edited", owner, nil, Update, false},
		{"admin deletes anonymous message", admin, nil, Delete, true},
		{"user can't delete anonymous message", owner, nil, Delete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanContact(tt.actor, tt.submitter, tt.action))
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, CanManageUsers(admin))
	assert.False(t, CanManageUsers(owner))
	assert.False(t, CanManageUsers(nobody))
}

func TestScopes(t *testing.T) {
	assert.Equal(t, Scope{All: true}, MediaScope(admin))
	assert.Equal(t, Scope{OwnerID: "owner", IncludeShared: true}, MediaScope(owner))

	assert.Equal(t, Scope{All: true}, ContactScope(admin))
	assert.Equal(t, Scope{OwnerID: "owner"}, ContactScope(owner))

	assert.Equal(t, Scope{OwnerID: "admin"}, OwnScope(admin))
}
