package config

import "time"

// Config holds the immutable configuration for a tmigo client.
//
// Config is read once at construction time and never mutated afterward;
// the client copies out of it, it never writes back.
type Config struct {
	Username string `mapstructure:"username" yaml:"username"`
	// OAuthToken is the bearer token sent as PASS oauth:<token>. An empty
	// token puts the client into anonymous (read-only) mode.
	OAuthToken string `mapstructure:"oauth_token" yaml:"oauth_token"`

	ServerAddr     string        `mapstructure:"server_addr" yaml:"server_addr"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay" yaml:"reconnect_delay"`

	// MessageRateLimit is the non-moderator send quota per 30s window.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
	// ModMessageRateLimit is the moderator send quota per 30s window.
	ModMessageRateLimit int `mapstructure:"mod_message_rate_limit" yaml:"mod_message_rate_limit"`
	// JoinRateLimit is the join quota per 10s window.
	JoinRateLimit int `mapstructure:"join_rate_limit" yaml:"join_rate_limit"`
	// GlobalRateLimit applies the send quota across all channels instead
	// of per channel.
	GlobalRateLimit bool `mapstructure:"global_rate_limit" yaml:"global_rate_limit"`

	// HideAuthLogs suppresses PASS/NICK frames (and anything containing
	// "oauth:") from log output.
	HideAuthLogs bool `mapstructure:"hide_auth_logs" yaml:"hide_auth_logs"`

	// IgnoredCommands is a bitset of irc.Command values to drop silently
	// on the inbound side. Build it with irc.IgnoreSet.With and convert
	// to uint64.
	IgnoredCommands uint64 `mapstructure:"ignored_commands" yaml:"ignored_commands"`
}

// Default returns configuration with TMI's documented defaults.
func Default() Config {
	return Config{
		ServerAddr:          "wss://irc-ws.chat.twitch.tv:443",
		ReconnectDelay:      5 * time.Second,
		MessageRateLimit:    20,
		ModMessageRateLimit: 100,
		JoinRateLimit:       20,
		GlobalRateLimit:     false,
		HideAuthLogs:        true,
	}
}

// UpdateFrom overwrites the receiver's string, duration and integer fields
// with the non-zero ones from other. The bool fields (GlobalRateLimit,
// HideAuthLogs) are not copied.
func (c *Config) UpdateFrom(other Config) {
	if other.Username != "" {
		c.Username = other.Username
	}
	if other.OAuthToken != "" {
		c.OAuthToken = other.OAuthToken
	}
	if other.ServerAddr != "" {
		c.ServerAddr = other.ServerAddr
	}
	if other.ReconnectDelay != 0 {
		c.ReconnectDelay = other.ReconnectDelay
	}
	if other.MessageRateLimit != 0 {
		c.MessageRateLimit = other.MessageRateLimit
	}
	if other.ModMessageRateLimit != 0 {
		c.ModMessageRateLimit = other.ModMessageRateLimit
	}
	if other.JoinRateLimit != 0 {
		c.JoinRateLimit = other.JoinRateLimit
	}
	if other.IgnoredCommands != 0 {
		c.IgnoredCommands = other.IgnoredCommands
	}
}

// IsAnonymous reports whether the client should connect without
// credentials.
func (c Config) IsAnonymous() bool {
	return c.OAuthToken == ""
}
