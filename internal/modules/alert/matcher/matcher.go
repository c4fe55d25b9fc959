// Package matcher decides whether an incoming message fires one of a
// chat's trigger rules. It is pure computation: patterns are validated
// when rules are added, so matching never errors and never blocks.
package matcher

import (
	"log/slog"
	"regexp"
	"sort"
	"sync"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
)

// Patterns are immutable once stored, so compiled regexps are cached for
// the life of the process instead of recompiling on every message.
var compiled sync.Map

func compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := compiled.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	compiled.Store(pattern, re)
	return re, nil
}

// Match returns the first rule, in insertion (Seq) order, whose pattern
// matches anywhere in text. At most one rule fires per message: evaluation
// stops at the first match. An empty rule list matches nothing.
func Match(rules []domain.Rule, text string) (domain.Rule, bool) {
	ordered := make([]domain.Rule, len(rules))
	copy(ordered, rules)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	for _, rule := range ordered {
		re, err := compile(rule.Pattern)
		if err != nil {
			// Patterns are validated at add time; a stored rule that no
			// longer compiles is skipped rather than breaking matching.
			slog.Warn("Skipping stored rule that does not compile", "pattern", rule.Pattern, "error", err)
			continue
		}
		if re.MatchString(text) {
			return rule, true
		}
	}

	return domain.Rule{}, false
}
