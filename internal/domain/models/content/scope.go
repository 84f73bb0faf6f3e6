package content

// Scope identifies a content namespace: a user's personal notes space or
// a room. Folder trees never span scopes, so every query into the tree
// carries one.
type Scope struct {
	Kind    FolderKind
	OwnerID string // set for notes scopes
	RoomID  string // set for room scopes
}

// NotesScope is the personal namespace of one user.
func NotesScope(ownerID string) Scope {
	return Scope{Kind: KindNotes, OwnerID: ownerID}
}

// RoomScope is the shared namespace of one room.
func RoomScope(roomID string) Scope {
	return Scope{Kind: KindRoom, RoomID: roomID}
}

// ScopeOf derives the namespace a folder lives in.
func ScopeOf(f *Folder) Scope {
	if f.Kind == KindRoom && f.RoomID != nil {
		return RoomScope(*f.RoomID)
	}
	return NotesScope(f.OwnerID)
}
