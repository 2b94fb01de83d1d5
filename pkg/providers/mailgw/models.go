package mailgw

import (
	"time"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// hydraCollection is the JSON-LD envelope used by every list endpoint
type hydraCollection[T any] struct {
	Members    []T `json:"hydra:member"`
	TotalItems int `json:"hydra:totalItems"`
}

type domain struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	IsActive  *bool  `json:"isActive,omitempty"`
	IsPrivate bool   `json:"isPrivate"`
}

type credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

type account struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

type tokenResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type participant struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// message covers both the summary and the full message shapes
type message struct {
	ID             string        `json:"id"`
	From           participant   `json:"from"`
	To             []participant `json:"to"`
	Subject        string        `json:"subject"`
	Intro          string        `json:"intro"`
	Text           string        `json:"text"`
	HTML           []string      `json:"html"`
	Seen           bool          `json:"seen"`
	HasAttachments bool          `json:"hasAttachments"`
	Size           int64         `json:"size"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func (m message) toMessage() types.Message {
	out := types.Message{
		ID:             m.ID,
		From:           types.Address{Address: m.From.Address, Name: m.From.Name},
		Subject:        m.Subject,
		Intro:          m.Intro,
		Text:           m.Text,
		HTML:           m.HTML,
		Seen:           m.Seen,
		HasAttachments: m.HasAttachments,
		Size:           m.Size,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.To) > 0 {
		out.To = make([]types.Address, len(m.To))
		for i, to := range m.To {
			out.To[i] = types.Address{Address: to.Address, Name: to.Name}
		}
	}
	return out
}
