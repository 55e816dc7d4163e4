// Package chatevents defines the subjects and payloads exchanged with the chat
// gateway.
package chatevents

// CommandReceivedV1 carries a command typed by a chat user.
const CommandReceivedV1 = "tbb.command.received.v1"

// ResponseSendV1 carries a reply for the gateway to post.
const ResponseSendV1 = "tbb.response.send.v1"

// CommandReceivedPayloadV1 is published by the gateway for every message that
// starts with the guild's prefix. Content excludes the prefix.
type CommandReceivedPayloadV1 struct {
	InvocationID string `json:"invocation_id"`
	GuildID      string `json:"guild_id,omitempty"`
	ChannelID    string `json:"channel_id"`
	AuthorID     string `json:"author_id"`
	Content      string `json:"content"`
	Prefix       string `json:"prefix,omitempty"`
}

// ResponsePayloadV1 is one reply. At least one of Content, Embed or
// Attachments is set.
type ResponsePayloadV1 struct {
	InvocationID string       `json:"invocation_id,omitempty"`
	ChannelID    string       `json:"channel_id"`
	Content      string       `json:"content,omitempty"`
	Embed        *Embed       `json:"embed,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// Embed mirrors the chat platform's rich message block.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

type EmbedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Attachment is a file uploaded with the reply. Data is base64 in JSON.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
