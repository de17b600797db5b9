package tmi

import "github.com/chatbridge/tmigo/internal/events"

// Channel is the joined-channel descriptor: a name plus the ROOMSTATE
// flags last reported for it.
type Channel struct {
	Name          string
	EmoteOnly     bool
	FollowersOnly int // seconds, -1 disabled
	UniqueChat    bool
	SlowSeconds   int
	SubOnly       bool
}

// channelSet is an ordered set of Channels: insertion order is preserved,
// and a name appears at most once. Grounded on the same map-plus-slice
// shape internal/core.Room uses for its client membership.
type channelSet struct {
	order  []string
	byName map[string]*Channel
}

func newChannelSet() *channelSet {
	return &channelSet{byName: make(map[string]*Channel)}
}

// addOrUpdate inserts rs.Channel if absent, applying every ROOMSTATE flag
// carried on rs (a full ROOMSTATE always carries all of them), and reports
// whether the channel was newly added.
func (s *channelSet) addOrUpdate(rs *events.RoomStateChange) bool {
	ch, existed := s.byName[rs.Channel]
	if !existed {
		ch = &Channel{Name: rs.Channel}
		s.byName[rs.Channel] = ch
		s.order = append(s.order, rs.Channel)
	}
	applyRoomState(ch, rs)
	return !existed
}

// update applies the single changed flag on a partial ROOMSTATE to an
// already-joined channel. A no-op if the channel was never joined.
func (s *channelSet) update(rs *events.RoomStateChange) {
	if ch, ok := s.byName[rs.Channel]; ok {
		applyRoomState(ch, rs)
	}
}

func applyRoomState(ch *Channel, rs *events.RoomStateChange) {
	if rs.EmoteOnly != nil {
		ch.EmoteOnly = *rs.EmoteOnly
	}
	if rs.FollowersOnly != nil {
		ch.FollowersOnly = *rs.FollowersOnly
	}
	if rs.UniqueChat != nil {
		ch.UniqueChat = *rs.UniqueChat
	}
	if rs.SlowSeconds != nil {
		ch.SlowSeconds = *rs.SlowSeconds
	}
	if rs.SubOnly != nil {
		ch.SubOnly = *rs.SubOnly
	}
}

// channel returns a copy of the stored descriptor for name, if joined.
func (s *channelSet) channel(name string) (Channel, bool) {
	ch, ok := s.byName[name]
	if !ok {
		return Channel{}, false
	}
	return *ch, true
}

// all returns a snapshot of every joined Channel descriptor in insertion
// order.
func (s *channelSet) all() []Channel {
	out := make([]Channel, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.byName[name])
	}
	return out
}

func (s *channelSet) remove(name string) {
	if _, ok := s.byName[name]; !ok {
		return
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *channelSet) has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// names returns a snapshot of the joined channel names in insertion order.
func (s *channelSet) names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
