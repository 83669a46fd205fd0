package game

import "sync"

// Seat ties a live connection to its place in a game.
type Seat struct {
	Pin      string
	PlayerID string
}

// Registry maps connection ids to seats so an abrupt disconnect, which
// carries no pin or player id of its own, can still be cleaned up.
type Registry struct {
	mu    sync.RWMutex
	seats map[string]Seat
}

func NewRegistry() *Registry {
	return &Registry{seats: make(map[string]Seat)}
}

// Bind records that connID sits as playerID in game pin, replacing any
// previous seat for that connection.
func (r *Registry) Bind(connID, pin, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seats[connID] = Seat{Pin: pin, PlayerID: playerID}
}

// Lookup returns the seat for connID, if any.
func (r *Registry) Lookup(connID string) (Seat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seat, ok := r.seats[connID]
	return seat, ok
}

// Unbind removes connID and returns the seat it held. Unbinding a
// connection that was never registered is a no-op.
func (r *Registry) Unbind(connID string) (Seat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[connID]
	if ok {
		delete(r.seats, connID)
	}
	return seat, ok
}

// ConnsFor returns every connection id currently seated as playerID in pin.
// Used to evict stale connections when a player rejoins by name.
func (r *Registry) ConnsFor(pin, playerID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var conns []string
	for connID, seat := range r.seats {
		if seat.Pin == pin && seat.PlayerID == playerID {
			conns = append(conns, connID)
		}
	}
	return conns
}

// Len returns the number of bound connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.seats)
}
