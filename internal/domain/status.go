// Package domain contains the core business entities and rules.
package domain

import "time"

// Status represents a single timeline entry (a post) from a Twitter/X account.
type Status struct {
	ID        string
	Author    Author
	Text      string
	CreatedAt time.Time
	InReplyTo string  // identifier of the status being replied to, empty if none
	Origin    *Origin // resolved reply target, nil when unresolved

	// Fields populated while building a conversation.
	TopicHeader  string
	StyleClasses string
	Adaptation   *Adaptation
}

// Author represents the status author's information.
type Author struct {
	ID     string
	Handle string
	Avatar string
}

// Origin is the abbreviated form of a replied-to status: only the author
// and text survive origin resolution.
type Origin struct {
	Author Author
	Text   string
}

// Adaptation is the result of a per-status transform. TopicHeader feeds the
// conversation's navigation list; Payload is adapter-defined and opaque to
// the builder.
type Adaptation struct {
	TopicHeader string
	Payload     any
}
