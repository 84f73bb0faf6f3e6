package rooms

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"atrium/internal/domain"
	"atrium/internal/domain/models"
	"atrium/internal/domain/repositories"
)

// StaticDirectory is an in-memory RoomDirectory. It backs local
// development and the seed tool; in deployment the directory is served
// by the room registry.
type StaticDirectory struct {
	mu          sync.RWMutex
	rooms       map[string]models.Room
	memberships map[string]map[string]models.Membership
}

// NewStaticDirectory creates an empty in-memory directory
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{
		rooms:       make(map[string]models.Room),
		memberships: make(map[string]map[string]models.Membership),
	}
}

// AddRoom registers a room and returns its id. A blank id is replaced
// with a generated one.
func (d *StaticDirectory) AddRoom(room models.Room) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	d.rooms[room.ID] = room
	return room.ID
}

// AddMember records a user's membership in a room
func (d *StaticDirectory) AddMember(roomID, userID string, role models.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.memberships[roomID] == nil {
		d.memberships[roomID] = make(map[string]models.Membership)
	}
	d.memberships[roomID][userID] = models.Membership{
		RoomID: roomID,
		UserID: userID,
		Role:   role,
	}
}

// GetRoom returns the room's access-relevant view
func (d *StaticDirectory) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	return &room, nil
}

// GetMembership returns the actor's membership record in a room
func (d *StaticDirectory) GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	membership, ok := d.memberships[roomID][userID]
	if !ok {
		return nil, fmt.Errorf("membership %s/%s: %w", roomID, userID, domain.ErrNotFound)
	}
	return &membership, nil
}

var _ repositories.RoomDirectory = (*StaticDirectory)(nil)
