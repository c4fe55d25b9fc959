//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ChannelType identifies a delivery channel: the in-app message is the
// primary channel, the voice call the secondary one.
// ENUM(message,call)
type ChannelType string
