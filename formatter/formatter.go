// Package formatter defines the optional code-formatting collaborator
// applied to serialized document text before it is written, in the style of
// prettier: a formatting profile is resolved once for a path and then applied
// to every serialization.
package formatter

import (
	"context"
	"sync"

	"github.com/tailscale/hujson"

	"github.com/confkit/datafile/codec"
)

// Profile holds resolved formatting configuration. Keys are
// formatter-specific; the core only threads the profile through.
type Profile map[string]any

// Formatter is the formatting collaborator.
type Formatter interface {
	// ResolveProfile looks up the formatting profile that applies to path.
	// The boolean reports whether a profile was found; without one,
	// formatting is skipped.
	ResolveProfile(ctx context.Context, path string) (Profile, bool, error)

	// Format reformats serialized text for the given source format.
	Format(ctx context.Context, text []byte, format codec.Format, profile Profile) ([]byte, error)
}

// Nop is a Formatter that resolves no profile and returns text unchanged.
type Nop struct{}

// ResolveProfile implements Formatter.
func (Nop) ResolveProfile(context.Context, string) (Profile, bool, error) {
	return nil, false, nil
}

// Format implements Formatter.
func (Nop) Format(_ context.Context, text []byte, _ codec.Format, _ Profile) ([]byte, error) {
	return text, nil
}

// JSONNormalizer formats JSON output through hujson's formatter, giving
// stable spacing regardless of how the tree was serialized. Non-JSON formats
// pass through unchanged.
type JSONNormalizer struct{}

// ResolveProfile implements Formatter. The normalizer needs no per-path
// configuration, so every path resolves to an empty profile.
func (JSONNormalizer) ResolveProfile(context.Context, string) (Profile, bool, error) {
	return Profile{}, true, nil
}

// Format implements Formatter.
func (JSONNormalizer) Format(_ context.Context, text []byte, format codec.Format, _ Profile) ([]byte, error) {
	if format != codec.FormatJSON {
		return text, nil
	}
	return hujson.Format(text)
}

// Memoize wraps a Formatter so the profile is resolved at most once and
// reused for every subsequent path. Managers share one memoized formatter
// across all their documents; concurrent first resolutions are expected to
// produce equal profiles, so the race is benign and last-write-wins.
func Memoize(f Formatter) Formatter {
	if f == nil {
		return nil
	}
	return &memoized{inner: f}
}

type memoized struct {
	inner Formatter

	mu       sync.Mutex
	resolved bool
	profile  Profile
	found    bool
}

// ResolveProfile implements Formatter.
func (m *memoized) ResolveProfile(ctx context.Context, path string) (Profile, bool, error) {
	m.mu.Lock()
	if m.resolved {
		profile, found := m.profile, m.found
		m.mu.Unlock()
		return profile, found, nil
	}
	m.mu.Unlock()

	profile, found, err := m.inner.ResolveProfile(ctx, path)
	if err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	m.resolved = true
	m.profile = profile
	m.found = found
	m.mu.Unlock()
	return profile, found, nil
}

// Format implements Formatter.
func (m *memoized) Format(ctx context.Context, text []byte, format codec.Format, profile Profile) ([]byte, error) {
	return m.inner.Format(ctx, text, format, profile)
}

// Ensure implementations satisfy Formatter at compile time.
var (
	_ Formatter = Nop{}
	_ Formatter = JSONNormalizer{}
	_ Formatter = (*memoized)(nil)
)
