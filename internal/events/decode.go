package events

import (
	"strconv"
	"strings"

	"github.com/chatbridge/tmigo/internal/irc"
)

func sourceFromTags(tags map[string]string) Source {
	s := Source{
		UserID:      tags["user-id"],
		DisplayName: tags["display-name"],
		Color:       tags["color"],
		Mod:         tags["mod"] == "1",
		Subscriber:  tags["subscriber"] == "1",
		Turbo:       tags["turbo"] == "1",
	}
	if badges := tags["badges"]; badges != "" {
		s.Badges = make(map[string]string)
		for _, b := range strings.Split(badges, ",") {
			k, v, ok := strings.Cut(b, "/")
			if !ok {
				continue
			}
			s.Badges[k] = v
			if k == "vip" {
				s.VIP = true
			}
		}
	}
	return s
}

func channelOf(m *irc.Message) string {
	return strings.TrimPrefix(m.Param(0), "#")
}

func nickFromPrefix(prefix []byte) string {
	p := string(prefix)
	if i := strings.IndexByte(p, '!'); i >= 0 {
		return p[:i]
	}
	return p
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// DecodePrivateMessage decodes a PRIVMSG line into a PrivateMessage.
func DecodePrivateMessage(m *irc.Message) *PrivateMessage {
	text := string(m.Trailing)
	action := false
	if strings.HasPrefix(text, "ACTION ") && strings.HasSuffix(text, "") {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "ACTION "), "")
		action = true
	} else if strings.HasPrefix(text, ".me ") {
		text = strings.TrimPrefix(text, ".me ")
		action = true
	}
	src := sourceFromTags(m.Tags)
	src.Username = nickFromPrefix(m.Prefix)
	return &PrivateMessage{
		Channel:   channelOf(m),
		RoomID:    m.Tags["room-id"],
		MessageID: m.Tags["id"],
		Text:      text,
		Action:    action,
		Source:    src,
		Tags:      m.Tags,
	}
}

// DecodeWhisper decodes a WHISPER line.
func DecodeWhisper(m *irc.Message) *Whisper {
	src := sourceFromTags(m.Tags)
	src.Username = nickFromPrefix(m.Prefix)
	return &Whisper{
		Source: src,
		Text:   string(m.Trailing),
		Tags:   m.Tags,
	}
}

// DecodeClearChat decodes a CLEARCHAT line into one of ChatClear, UserBan,
// or UserTimeout depending on which tags are present.
func DecodeClearChat(m *irc.Message) (chatClear *ChatClear, userBan *UserBan, userTimeout *UserTimeout) {
	channel := channelOf(m)
	target := string(m.Trailing)
	if target == "" {
		return &ChatClear{Channel: channel, Tags: m.Tags}, nil, nil
	}
	if dur, ok := m.Tag("ban-duration"); ok {
		return nil, nil, &UserTimeout{
			Channel:      channel,
			Username:     target,
			DurationSecs: atoiOr(dur, 0),
			Tags:         m.Tags,
		}
	}
	return nil, &UserBan{Channel: channel, Username: target, Tags: m.Tags}, nil
}

// DecodeClearMsg decodes a CLEARMSG line.
func DecodeClearMsg(m *irc.Message) *MessageDelete {
	return &MessageDelete{
		Channel:   channelOf(m),
		Username:  m.Tags["login"],
		MessageID: m.Tags["target-msg-id"],
		Text:      string(m.Trailing),
		Tags:      m.Tags,
	}
}

// DecodePart decodes a PART line.
func DecodePart(m *irc.Message) *ChannelPart {
	return &ChannelPart{
		Channel:  channelOf(m),
		Username: nickFromPrefix(m.Prefix),
	}
}

// DecodeNotice decodes a NOTICE line.
func DecodeNotice(m *irc.Message) *Notice {
	return &Notice{
		Channel: channelOf(m),
		MsgID:   m.Tags["msg-id"],
		Message: string(m.Trailing),
		Tags:    m.Tags,
	}
}

// DecodeUserState decodes a USERSTATE or GLOBALUSERSTATE line.
func DecodeUserState(m *irc.Message, global bool) *UserState {
	var emoteSets []string
	if es := m.Tags["emote-sets"]; es != "" {
		emoteSets = strings.Split(es, ",")
	}
	channel := ""
	if !global {
		channel = channelOf(m)
	}
	return &UserState{
		Channel:     channel,
		Global:      global,
		DisplayName: m.Tags["display-name"],
		Mod:         m.Tags["mod"] == "1",
		Subscriber:  m.Tags["subscriber"] == "1",
		EmoteSets:   emoteSets,
		Tags:        m.Tags,
	}
}

// roomStateFields are the tag names that make up a "full" ROOMSTATE.
var roomStateFields = []string{
	"emote-only", "followers-only", "r9k", "slow", "subs-only",
}

// DecodeRoomState decodes a ROOMSTATE line, detecting whether it carries
// the complete set of room-mode tags (full, emitted once right after a
// successful JOIN) or a single changed field (partial).
func DecodeRoomState(m *irc.Message) *RoomStateChange {
	present := 0
	for _, f := range roomStateFields {
		if _, ok := m.Tag(f); ok {
			present++
		}
	}

	rs := &RoomStateChange{
		Channel: channelOf(m),
		Full:    present == len(roomStateFields),
		Tags:    m.Tags,
	}

	if v, ok := m.Tag("emote-only"); ok {
		b := v == "1"
		rs.EmoteOnly = &b
	}
	if v, ok := m.Tag("followers-only"); ok {
		n := atoiOr(v, -1)
		rs.FollowersOnly = &n
	}
	if v, ok := m.Tag("r9k"); ok {
		b := v == "1"
		rs.UniqueChat = &b
	}
	if v, ok := m.Tag("slow"); ok {
		n := atoiOr(v, 0)
		rs.SlowSeconds = &n
	}
	if v, ok := m.Tag("subs-only"); ok {
		b := v == "1"
		rs.SubOnly = &b
	}

	return rs
}

// DecodeUserNotice decodes the USERNOTICE envelope common to every
// sub-type; callers switch on msg-id to pick a more specific decoder.
func DecodeUserNotice(m *irc.Message) (channel, msgID, systemMsg string, src Source) {
	channel = channelOf(m)
	msgID = m.Tags["msg-id"]
	systemMsg = m.Tags["system-msg"]
	src = sourceFromTags(m.Tags)
	src.Username = nickFromPrefix(m.Prefix)
	return
}

// DecodeSubscription decodes a USERNOTICE with msg-id sub/resub.
func DecodeSubscription(m *irc.Message) *Subscription {
	channel, msgID, sysMsg, src := DecodeUserNotice(m)
	return &Subscription{
		Channel:   channel,
		Source:    src,
		Months:    atoiOr(m.Tags["msg-param-cumulative-months"], 0),
		Plan:      m.Tags["msg-param-sub-plan"],
		PlanName:  m.Tags["msg-param-sub-plan-name"],
		IsResub:   msgID == "resub",
		SystemMsg: sysMsg,
		Tags:      m.Tags,
	}
}

// DecodeGiftSub decodes a USERNOTICE with msg-id subgift/anonsubgift.
func DecodeGiftSub(m *irc.Message) *GiftSub {
	channel, _, sysMsg, src := DecodeUserNotice(m)
	return &GiftSub{
		Channel:              channel,
		Source:               src,
		RecipientUsername:    m.Tags["msg-param-recipient-user-name"],
		RecipientDisplayName: m.Tags["msg-param-recipient-display-name"],
		RecipientID:          m.Tags["msg-param-recipient-id"],
		Months:               atoiOr(m.Tags["msg-param-gift-months"], 1),
		Plan:                 m.Tags["msg-param-sub-plan"],
		SystemMsg:            sysMsg,
		Tags:                 m.Tags,
	}
}

// DecodeGiftSubIntro decodes a USERNOTICE with msg-id submysterygift.
func DecodeGiftSubIntro(m *irc.Message) *GiftSubIntro {
	channel, _, sysMsg, src := DecodeUserNotice(m)
	return &GiftSubIntro{
		Channel:   channel,
		Source:    src,
		GiftCount: atoiOr(m.Tags["msg-param-mass-gift-count"], 0),
		Plan:      m.Tags["msg-param-sub-plan"],
		SystemMsg: sysMsg,
		Tags:      m.Tags,
	}
}

// DecodeRaid decodes a USERNOTICE with msg-id raid.
func DecodeRaid(m *irc.Message) *Raid {
	channel, _, sysMsg, src := DecodeUserNotice(m)
	return &Raid{
		Channel:     channel,
		Source:      src,
		ViewerCount: atoiOr(m.Tags["msg-param-viewerCount"], 0),
		SystemMsg:   sysMsg,
		Tags:        m.Tags,
	}
}

// DecodePaidUpgrade decodes a USERNOTICE with msg-id
// giftpaidupgrade/anongiftpaidupgrade.
func DecodePaidUpgrade(m *irc.Message) *PaidUpgrade {
	channel, msgID, sysMsg, src := DecodeUserNotice(m)
	return &PaidUpgrade{
		Channel:   channel,
		Source:    src,
		Anonymous: msgID == "anongiftpaidupgrade",
		PromoName: m.Tags["msg-param-promo-name"],
		SystemMsg: sysMsg,
		Tags:      m.Tags,
	}
}

// DecodePrimeUpgrade decodes a USERNOTICE with msg-id primepaidupgrade.
func DecodePrimeUpgrade(m *irc.Message) *PrimeUpgrade {
	channel, _, sysMsg, src := DecodeUserNotice(m)
	return &PrimeUpgrade{
		Channel:   channel,
		Source:    src,
		Plan:      m.Tags["msg-param-sub-plan"],
		SystemMsg: sysMsg,
		Tags:      m.Tags,
	}
}

// DecodeAnnouncement decodes a USERNOTICE with msg-id announcement.
func DecodeAnnouncement(m *irc.Message) *Announcement {
	channel, _, _, src := DecodeUserNotice(m)
	return &Announcement{
		Channel: channel,
		Source:  src,
		Color:   m.Tags["msg-param-color"],
		Text:    string(m.Trailing),
		Tags:    m.Tags,
	}
}
