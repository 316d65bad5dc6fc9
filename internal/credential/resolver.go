// Package credential resolves the Claude Code OAuth access token from the
// host's secure credential storage.
package credential

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strings"
)

const (
	// ServiceName is the keychain service label Claude Code stores its
	// credentials under.
	ServiceName = "Claude Code-credentials"
	// TokenPrefix is required on every accepted OAuth access token.
	TokenPrefix = "sk-ant-oat"
)

// Strategy reads the raw credential text for one platform.
type Strategy interface {
	Lookup(ctx context.Context) (string, error)
}

// Resolver picks the Strategy registered for the host platform.
type Resolver struct {
	goos       string
	strategies map[string]Strategy
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPlatform overrides runtime.GOOS.
func WithPlatform(goos string) Option {
	return func(r *Resolver) { r.goos = goos }
}

// WithStrategy registers s for goos, replacing any default. This is the
// extension point for platforms without a built-in strategy.
func WithStrategy(goos string, s Strategy) Option {
	return func(r *Resolver) { r.strategies[goos] = s }
}

// NewResolver returns a Resolver with the built-in strategies: the macOS
// Keychain on darwin and the Claude Code credentials file on linux.
func NewResolver(logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Resolver{
		goos: runtime.GOOS,
		strategies: map[string]Strategy{
			"darwin": NewKeychain(),
			"linux":  NewCredentialsFile(""),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the access token and true, or "" and false when no valid
// token is available. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context) (string, bool) {
	s, ok := r.strategies[r.goos]
	if !ok || s == nil {
		r.logger.Debug("no credential strategy for platform", "goos", r.goos)
		return "", false
	}
	raw, err := s.Lookup(ctx)
	if err != nil {
		r.logger.Debug("credential lookup failed", "goos", r.goos, "err", err)
		return "", false
	}
	token, ok := ParseToken(raw)
	if !ok {
		r.logger.Debug("credential rejected", "goos", r.goos)
		return "", false
	}
	r.logger.Debug("credential resolved", "token", Mask(token))
	return token, true
}

type storedCredentials struct {
	ClaudeAiOauth *struct {
		AccessToken string `json:"accessToken"`
	} `json:"claudeAiOauth"`
}

// ParseToken extracts a token from stored credential text. JSON objects must
// carry claudeAiOauth.accessToken; anything that is not a JSON object is
// taken as the raw token. The result must start with TokenPrefix.
func ParseToken(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	candidate := raw
	var creds storedCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err == nil {
		if creds.ClaudeAiOauth == nil {
			return "", false
		}
		candidate = strings.TrimSpace(creds.ClaudeAiOauth.AccessToken)
	}
	if !strings.HasPrefix(candidate, TokenPrefix) {
		return "", false
	}
	return candidate, true
}

// Mask returns a loggable form of token.
func Mask(token string) string {
	if len(token) <= len(TokenPrefix)+4 {
		return TokenPrefix + "…"
	}
	return TokenPrefix + "…" + token[len(token)-4:]
}
