package models

// Role is a membership role inside a room. The room admin is not a
// membership row; admin identity lives on the Room itself.
type Role string

const (
	// RoleMember can read room content
	RoleMember Role = "member"

	// RoleModerator can additionally create, modify and delete room folders
	RoleModerator Role = "moderator"
)

// Room is the boundary view of the room registry: just enough to derive
// folder access. The registry itself (naming, invites, rosters) is an
// external collaborator.
type Room struct {
	ID       string `json:"id"`
	AdminID  string `json:"admin_id"`
	IsPublic bool   `json:"is_public"`
}

// Membership is an actor's membership record in a room. Absence of a
// record means the actor is not a member.
type Membership struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Grant is the outcome of evaluating (actor, folder). Derived, never
// persisted.
type Grant struct {
	CanRead   bool
	CanWrite  bool
	CanDelete bool
}

// FullAccess is the grant a notes-folder owner or room admin holds.
func FullAccess() Grant {
	return Grant{CanRead: true, CanWrite: true, CanDelete: true}
}

// ReadOnly is the grant a plain room member holds.
func ReadOnly() Grant {
	return Grant{CanRead: true}
}
