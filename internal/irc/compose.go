package irc

import "strings"

// CapRequest is the exact IRCv3 capability request TMI expects.
const CapRequest = "CAP REQ :twitch.tv/tags twitch.tv/commands"

// Pass composes a PASS frame carrying an OAuth bearer token.
func Pass(token string) string {
	return "PASS oauth:" + token
}

// Nick composes a NICK frame.
func Nick(nick string) string {
	return "NICK " + nick
}

// JoinLine composes a JOIN frame for a single channel name (without #).
func JoinLine(channel string) string {
	return "JOIN #" + channel
}

// PartLine composes a PART frame for a single channel name (without #).
func PartLine(channel string) string {
	return "PART #" + channel
}

// Pong composes a PONG reply frame.
func Pong() string {
	return "PONG :tmi.twitch.tv"
}

// PrivmsgOptions configures PrivmsgLine's tag and action rendering.
type PrivmsgOptions struct {
	Nonce         string
	ReplyParentID string
	Action        bool
}

// PrivmsgLine composes a PRIVMSG frame with the optional client-nonce /
// reply-parent-msg-id tag and optional .me action prefix.
func PrivmsgLine(channel, text string, opts PrivmsgOptions) string {
	var b strings.Builder
	if opts.Nonce != "" {
		b.WriteString("@client-nonce=")
		b.WriteString(opts.Nonce)
		b.WriteByte(' ')
	} else if opts.ReplyParentID != "" {
		b.WriteString("@reply-parent-msg-id=")
		b.WriteString(opts.ReplyParentID)
		b.WriteByte(' ')
	}
	b.WriteString("PRIVMSG #")
	b.WriteString(channel)
	b.WriteString(" :")
	if opts.Action {
		b.WriteString(".me ")
	}
	b.WriteString(text)
	return b.String()
}
