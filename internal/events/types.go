// Package events holds the typed payloads tmigo hands to user event hooks,
// and the decoders that turn a parsed irc.Message into one of them. Each
// decoder is a mechanical tag extractor; the interesting dispatch logic
// (which decoder to run, and what sub-case a command represents) lives in
// internal/dispatch.
package events

// Source identifies the chatter who triggered an event.
type Source struct {
	UserID      string
	Username    string
	DisplayName string
	Color       string
	Badges      map[string]string
	Mod         bool
	Subscriber  bool
	VIP         bool
	Turbo       bool
}

// PrivateMessage is a PRIVMSG.
type PrivateMessage struct {
	Channel   string
	RoomID    string
	MessageID string
	Text      string
	Action    bool // true if the message was a CTCP ACTION or carried a .me prefix
	Source    Source
	Tags      map[string]string
}

// Whisper is a WHISPER.
type Whisper struct {
	Source Source
	Text   string
	Tags   map[string]string
}

// Subscription is a USERNOTICE with msg-id sub or resub.
type Subscription struct {
	Channel   string
	Source    Source
	Months    int
	Plan      string
	PlanName  string
	IsResub   bool
	SystemMsg string
	Tags      map[string]string
}

// GiftSub is a USERNOTICE with msg-id subgift or anonsubgift.
type GiftSub struct {
	Channel              string
	Source               Source
	RecipientUsername    string
	RecipientDisplayName string
	RecipientID          string
	Months               int
	Plan                 string
	SystemMsg            string
	Tags                 map[string]string
}

// GiftSubIntro is a USERNOTICE with msg-id submysterygift: the
// announcement that precedes a batch of individual GiftSub events.
type GiftSubIntro struct {
	Channel   string
	Source    Source
	GiftCount int
	Plan      string
	SystemMsg string
	Tags      map[string]string
}

// Raid is a USERNOTICE with msg-id raid.
type Raid struct {
	Channel     string
	Source      Source
	ViewerCount int
	SystemMsg   string
	Tags        map[string]string
}

// PaidUpgrade is a USERNOTICE with msg-id giftpaidupgrade or
// anongiftpaidupgrade.
type PaidUpgrade struct {
	Channel   string
	Source    Source
	Anonymous bool
	PromoName string
	SystemMsg string
	Tags      map[string]string
}

// PrimeUpgrade is a USERNOTICE with msg-id primepaidupgrade.
type PrimeUpgrade struct {
	Channel   string
	Source    Source
	Plan      string
	SystemMsg string
	Tags      map[string]string
}

// Announcement is a USERNOTICE with msg-id announcement.
type Announcement struct {
	Channel string
	Source  Source
	Color   string
	Text    string
	Tags    map[string]string
}

// ChatClear is a CLEARCHAT with no target user: the whole channel's
// chat history was cleared.
type ChatClear struct {
	Channel string
	Tags    map[string]string
}

// UserBan is a CLEARCHAT with a target user and no ban duration.
type UserBan struct {
	Channel  string
	Username string
	Tags     map[string]string
}

// UserTimeout is a CLEARCHAT with a target user and a ban duration.
type UserTimeout struct {
	Channel      string
	Username     string
	DurationSecs int
	Tags         map[string]string
}

// MessageDelete is a CLEARMSG.
type MessageDelete struct {
	Channel   string
	Username  string
	MessageID string
	Text      string
	Tags      map[string]string
}

// RoomStateChange describes one ROOMSTATE line: either the full set of
// room-mode tags (right after JOIN) or a single field that changed.
type RoomStateChange struct {
	Channel string
	Full    bool

	// Which field changed is encoded by which of these is non-nil; at
	// most one is set on a partial ROOMSTATE, all are set on a full one.
	EmoteOnly     *bool
	FollowersOnly *int // seconds, -1 disabled
	UniqueChat    *bool
	SlowSeconds   *int
	SubOnly       *bool

	Tags map[string]string
}

// ChannelPart is a PART.
type ChannelPart struct {
	Channel  string
	Username string
}

// Notice is a NOTICE.
type Notice struct {
	Channel string
	MsgID   string
	Message string
	Tags    map[string]string
}

// UserState is a USERSTATE or GLOBALUSERSTATE.
type UserState struct {
	Channel     string // empty for GLOBALUSERSTATE
	Global      bool
	DisplayName string
	Mod         bool
	Subscriber  bool
	EmoteSets   []string
	Tags        map[string]string
}
