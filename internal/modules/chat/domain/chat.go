package domain

import "errors"

// ErrInvalidPattern is returned when an alert rule does not compile as a
// regular expression. Patterns are rejected at add time so matching never
// sees a malformed rule.
var ErrInvalidPattern = errors.New("invalid alert pattern")

// Chat represents a group, supergroup or channel the bot watches.
type Chat struct {
	ID int64 `json:"id"`
	// AdderID is the user who added the bot to the chat. It is set once,
	// the first time the bot joins, and cleared when the bot is removed.
	AdderID     *int64     `json:"adder_id,omitempty"`
	Status      ChatStatus `json:"status"`
	Name        string     `json:"name,omitempty"`
	Kind        ChatKind   `json:"kind,omitempty"`
	Subscribers []int64    `json:"subscribers,omitempty"`
	Rules       []Rule     `json:"rules,omitempty"`
	Muted       bool       `json:"muted"`
	// NextRuleSeq is the insertion counter handed to the next rule.
	NextRuleSeq int64 `json:"next_rule_seq,omitempty"`
}

// Rule is a trigger pattern together with its insertion sequence number.
// Seq defines the order rules are evaluated in, so which rule wins is a
// stable contract instead of an accident of set iteration.
type Rule struct {
	Pattern string `json:"pattern"`
	Seq     int64  `json:"seq"`
}

// IsExiting reports whether the status means the bot can no longer post to
// the chat.
func (x ChatStatus) IsExiting() bool {
	switch x {
	case ChatStatusRestricted, ChatStatusBanned, ChatStatusLeft:
		return true
	}
	return false
}

// ApplyMembership updates the bot's status and the adder attribution.
// Exiting statuses clear the adder; otherwise the first actor to add the
// bot wins and later joins never overwrite it.
func (c *Chat) ApplyMembership(actorID int64, status ChatStatus) {
	c.Status = status
	if status.IsExiting() {
		c.AdderID = nil
		return
	}
	if c.AdderID == nil {
		c.AdderID = &actorID
	}
}

// Subscribe adds a subscriber id to the chat's alert list. It reports
// whether the set changed.
func (c *Chat) Subscribe(subscriberID int64) bool {
	for _, id := range c.Subscribers {
		if id == subscriberID {
			return false
		}
	}
	c.Subscribers = append(c.Subscribers, subscriberID)
	return true
}

// HasRule reports whether the chat already carries the given pattern.
func (c *Chat) HasRule(pattern string) bool {
	for _, r := range c.Rules {
		if r.Pattern == pattern {
			return true
		}
	}
	return false
}

// AddRule appends a rule with the next sequence number. The pattern must
// already be validated by the caller.
func (c *Chat) AddRule(pattern string) Rule {
	rule := Rule{Pattern: pattern, Seq: c.NextRuleSeq}
	c.NextRuleSeq++
	c.Rules = append(c.Rules, rule)
	return rule
}
