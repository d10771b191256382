package bot

import "strings"

// Policy decides whether a sender may interact with the bot. Pure function
// of the sender email and static configuration.
type Policy struct {
	allowed    map[string]struct{}
	selfSuffix string
}

func NewPolicy(allowedEmails []string, botDomain string) *Policy {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		allowed[email] = struct{}{}
	}
	return &Policy{
		allowed:    allowed,
		selfSuffix: "@" + strings.TrimPrefix(botDomain, "@"),
	}
}

// SelfMessage reports whether the sender is a bot account on the platform's
// bot domain. Such messages are silently ignored, never refused, to avoid
// reply loops between bots.
func (p *Policy) SelfMessage(senderEmail string) bool {
	return senderEmail != "" && strings.HasSuffix(senderEmail, p.selfSuffix)
}

// Authorized reports whether the sender may talk to the bot: not a bot
// account, and present in the allow-list.
func (p *Policy) Authorized(senderEmail string) bool {
	if p.SelfMessage(senderEmail) {
		return false
	}
	_, ok := p.allowed[senderEmail]
	return ok
}
