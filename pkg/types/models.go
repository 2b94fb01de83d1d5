package types

import "time"

// EmailIdentity is a provisioned mailbox
type EmailIdentity struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	Provider string `json:"provider"`
}

// IsZero reports whether the identity holds no mailbox
func (e EmailIdentity) IsZero() bool {
	return e.Address == ""
}

// PhoneIdentity is an allocated phone number. VerificationID is the
// provider-internal handle used for polling and cancellation.
type PhoneIdentity struct {
	PhoneNumber    string `json:"phone_number"`
	VerificationID string `json:"verification_id"`
	Service        string `json:"service"`
	Provider       string `json:"provider"`
	Region         string `json:"region,omitempty"`
}

// Active reports whether the identity still references an allocation
func (p PhoneIdentity) Active() bool {
	return p.VerificationID != ""
}

// Address is an email participant
type Address struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// Message is an inbox entry. Summaries carry only ID, sender, subject and
// intro; a follow-up GetMessageContent fills Text and HTML.
type Message struct {
	ID             string    `json:"id"`
	From           Address   `json:"from"`
	To             []Address `json:"to,omitempty"`
	Subject        string    `json:"subject"`
	Intro          string    `json:"intro,omitempty"`
	Text           string    `json:"text,omitempty"`
	HTML           []string  `json:"html,omitempty"`
	Seen           bool      `json:"seen"`
	HasAttachments bool      `json:"has_attachments"`
	Size           int64     `json:"size,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Service is a verifiable service offered by an SMS provider
type Service struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
