//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ChatStatus is the bot's own membership status in a chat. Administrator
// and owner collapse to member for alerting purposes.
// ENUM(member,restricted,banned,left)
type ChatStatus string

// ChatKind is the flavour of chat the bot was added to. Private chats are
// never tracked.
// ENUM(group,supergroup,channel)
type ChatKind string
