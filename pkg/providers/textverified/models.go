package textverified

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type service struct {
	ID    flexString `json:"id"`
	Name  string     `json:"name"`
	Cost  *float64   `json:"cost,omitempty"`
	Price *float64   `json:"price,omitempty"`
}

// toService uses the name as the id when the upstream omits one, since the
// name is what POST /Verifications accepts in that case.
func (s service) toService() types.Service {
	out := types.Service{ID: strings.TrimSpace(string(s.ID)), Name: s.Name}
	if out.ID == "" {
		out.ID = s.Name
	}
	switch {
	case s.Cost != nil:
		out.Price = *s.Cost
	case s.Price != nil:
		out.Price = *s.Price
	}
	return out
}

type verificationRequest struct {
	ID string `json:"id"`
}

type verification struct {
	ID     flexString `json:"id"`
	Number string     `json:"number"`
	Code   *string    `json:"code"`
	Status string     `json:"status,omitempty"`
}
