package bot

import (
	"strings"
	"sync"
)

// Normalizer strips the bot's own name out of inbound text before it is
// sent to the NLU backend, so a mention like "@Helper Bot what's up" reads
// as a plain question. The identity is learned from the profile bootstrap
// and may be unset when the profile load failed; in that state text passes
// through unchanged.
type Normalizer struct {
	mu        sync.RWMutex
	fullName  string
	shortName string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// SetIdentity derives the bot's full and short names from its platform
// display name. The platform appends a literal "(bot)" marker which is not
// part of the mention text.
func (n *Normalizer) SetIdentity(displayName string) {
	full := strings.TrimSpace(strings.ReplaceAll(displayName, "(bot)", ""))
	short := ""
	if idx := strings.Index(full, " "); idx > 0 {
		short = full[:idx]
	}
	n.mu.Lock()
	n.fullName = full
	n.shortName = short
	n.mu.Unlock()
}

// Identity returns the derived full and short names; both empty until
// SetIdentity has run.
func (n *Normalizer) Identity() (fullName, shortName string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.fullName, n.shortName
}

// Clean removes every occurrence of the full name, then of the short name.
// Matching is plain substring removal, not word-boundary aware; a message
// containing the short name inside an unrelated word gets mangled.
func (n *Normalizer) Clean(text string) string {
	fullName, shortName := n.Identity()
	if fullName != "" {
		text = strings.ReplaceAll(text, fullName, "")
	}
	if shortName != "" {
		text = strings.ReplaceAll(text, shortName, "")
	}
	return text
}
