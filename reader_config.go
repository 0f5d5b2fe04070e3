package btpower

import (
	"log/slog"
	"time"

	"github.com/gridtie/btpower/schema"
	"github.com/gridtie/btpower/session"
)

// ReaderConfig tunes the retry, timeout and planning behavior of a Reader.
// Zero-value retry, timeout, planner, cipher-mode and logger fields fall
// back to DefaultReaderConfig's values; EncryptionEnabled and
// AllowUnencryptedFallback are used as given (false when unset). Struct tags
// carry both json and mapstructure, the same dual-tag convention the
// teacher's BuilderDefaults uses so a config.json file or a
// viper-sourced map can populate it.
type ReaderConfig struct {
	// ConnectRetryBudget is how many connect attempts a single Read will
	// make before giving up. No backoff is applied beyond the connect
	// timeout itself.
	ConnectRetryBudget int `json:"connect_retry_budget" mapstructure:"connect_retry_budget"`
	// ConnectTimeout bounds a single connect attempt.
	ConnectTimeout Duration `json:"connect_timeout" mapstructure:"connect_timeout"`
	// ReadTimeout bounds waiting for one range's complete response.
	ReadTimeout Duration `json:"read_timeout" mapstructure:"read_timeout"`
	// HandshakeTimeout bounds the crypto session handshake, when attempted.
	HandshakeTimeout Duration `json:"handshake_timeout" mapstructure:"handshake_timeout"`

	// Planner groups a schema's fields into read ranges.
	Planner schema.PlannerConfig `json:"planner" mapstructure:"planner"`

	// EncryptionEnabled attempts the IoT-v2 crypto handshake when the
	// schema's IoT version is >= 2. If the handshake fails and
	// AllowUnencryptedFallback is set, the reader falls back to sending
	// frames in the clear rather than failing the read outright.
	EncryptionEnabled        bool         `json:"encryption_enabled" mapstructure:"encryption_enabled"`
	AllowUnencryptedFallback bool         `json:"allow_unencrypted_fallback" mapstructure:"allow_unencrypted_fallback"`
	CipherMode               session.Mode `json:"cipher_mode" mapstructure:"cipher_mode"`

	// Logger is not config-file material; it's left unexported from the
	// json/mapstructure surface and always set programmatically.
	Logger *slog.Logger `json:"-" mapstructure:"-"`
}

// DefaultReaderConfig mirrors the values spec.md names explicitly: a
// connect retry budget of 10 with no backoff, and a planner tuned the same
// as schema.DefaultPlannerConfig.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		ConnectRetryBudget:       10,
		ConnectTimeout:           Duration(3 * time.Second),
		ReadTimeout:              Duration(2 * time.Second),
		HandshakeTimeout:         Duration(3 * time.Second),
		Planner:                  schema.DefaultPlannerConfig(),
		EncryptionEnabled:        true,
		AllowUnencryptedFallback: true,
		CipherMode:               session.ModeCTR,
		Logger:                   slog.Default(),
	}
}

func (c ReaderConfig) withDefaults() ReaderConfig {
	d := DefaultReaderConfig()
	if c.ConnectRetryBudget <= 0 {
		c.ConnectRetryBudget = d.ConnectRetryBudget
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.Planner.MaxRegisters == 0 {
		c.Planner = d.Planner
	}
	if c.CipherMode == 0 {
		c.CipherMode = d.CipherMode
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}
