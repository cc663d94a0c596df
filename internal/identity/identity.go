// Package identity reconciles free-text participant names with canonical
// account identities.
//
// Expense records carry participant names as the user typed them: a
// display name, a misspelling, or the reserved self alias "Yo" that entry
// forms store instead of the creator's resolved identity. Balance
// computation needs one stable key per person, so every name goes through
// a Resolver before any money is attributed to it.
//
// Resolution never fails hard: a name that matches nothing resolves to
// not-found and the caller drops it from the split. Misspelled names
// therefore silently skew splits; that is a documented property of the
// data model, not something this package papers over.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SelfLabel is the display label shown for the viewer's own identity.
const SelfLabel = "Yo"

// selfAlias is the normalized form of the reserved placeholder that entry
// forms store to mean "the record's own creator".
const selfAlias = "yo"

// Member pairs a canonical identity with the label it is displayed under.
type Member struct {
	ID          string
	DisplayName string
}

// Resolver maps free-text names to canonical identities for one household
// or group context. Build one per computation from the current member
// list; it holds no other state.
type Resolver struct {
	members    []Member
	byID       map[string]Member
	normalized map[string]string // normalized display name -> canonical ID
}

var diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims, and strips diacritics from a name so that
// "José " and "jose" compare equal.
func Normalize(name string) string {
	stripped, _, err := transform.String(diacritics, name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// NewResolver indexes the given members. Later members do not displace
// earlier ones on normalized-name collisions.
func NewResolver(members []Member) *Resolver {
	r := &Resolver{
		members:    members,
		byID:       make(map[string]Member, len(members)),
		normalized: make(map[string]string, len(members)),
	}
	for _, m := range members {
		if _, ok := r.byID[m.ID]; !ok {
			r.byID[m.ID] = m
		}
		key := Normalize(m.DisplayName)
		if key == "" {
			continue
		}
		if _, ok := r.normalized[key]; !ok {
			r.normalized[key] = m.ID
		}
	}
	return r
}

// Members returns the member list the resolver was built from.
func (r *Resolver) Members() []Member { return r.members }

// Resolve maps a free-text name to a canonical identity: exact identity
// match first, then exact display name, then normalized lookup. The
// second result is false when nothing matches.
func (r *Resolver) Resolve(name string) (string, bool) {
	if _, ok := r.byID[name]; ok {
		return name, true
	}
	for _, m := range r.members {
		if m.DisplayName == name {
			return m.ID, true
		}
	}
	id, ok := r.normalized[Normalize(name)]
	return id, ok
}

// ResolveParticipant resolves a name from an expense's participant list.
// The reserved self alias resolves to the expense owner's identity rather
// than going through a literal lookup, because forms store the alias
// instead of the resolved identity at entry time.
func (r *Resolver) ResolveParticipant(name, ownerID string) (string, bool) {
	if Normalize(name) == selfAlias {
		if ownerID == "" {
			return "", false
		}
		return ownerID, true
	}
	return r.Resolve(name)
}

// Label returns the display label for an identity, substituting SelfLabel
// when the identity is the viewer's own. Unknown identities fall back to
// the raw key.
func (r *Resolver) Label(id, viewerID string) string {
	if id == viewerID {
		return SelfLabel
	}
	if m, ok := r.byID[id]; ok {
		return m.DisplayName
	}
	return id
}
