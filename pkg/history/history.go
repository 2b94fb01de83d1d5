// Package history records created identities. Each kind keeps its own
// newest-first list capped at a configurable length.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// Record is one created identity
type Record struct {
	ID          string             `json:"id"`
	Kind        types.ProviderKind `json:"kind"`
	Address     string             `json:"email,omitempty"`
	Password    string             `json:"password,omitempty"`
	PhoneNumber string             `json:"phone_number,omitempty"`
	Service     string             `json:"service,omitempty"`
	Provider    string             `json:"provider"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NewEmailRecord builds a record for a created mailbox. The service of an
// email record is the provider that hosts the mailbox.
func NewEmailRecord(identity types.EmailIdentity, at time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Kind:      types.ProviderKindEmail,
		Address:   identity.Address,
		Password:  identity.Password,
		Service:   identity.Provider,
		Provider:  identity.Provider,
		Timestamp: at.UTC(),
	}
}

// NewSMSRecord builds a record for an allocated number
func NewSMSRecord(identity types.PhoneIdentity, at time.Time) Record {
	return Record{
		ID:          uuid.NewString(),
		Kind:        types.ProviderKindSMS,
		PhoneNumber: identity.PhoneNumber,
		Service:     identity.Service,
		Provider:    identity.Provider,
		Timestamp:   at.UTC(),
	}
}

// Writer receives records of created identities
type Writer interface {
	Add(ctx context.Context, record Record) error
}

// Store is a Writer that can also list what it holds
type Store interface {
	Writer
	List(ctx context.Context, kind types.ProviderKind) ([]Record, error)
}

// DefaultLimit caps each list when no limit is given
const DefaultLimit = 20

func validKind(kind types.ProviderKind) error {
	if kind != types.ProviderKindEmail && kind != types.ProviderKindSMS {
		return fmt.Errorf("unknown history kind %q", kind)
	}
	return nil
}

// prepend puts record first and trims to limit
func prepend(records []Record, record Record, limit int) []Record {
	out := make([]Record, 0, len(records)+1)
	out = append(out, record)
	out = append(out, records...)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Discard drops every record
var Discard Writer = discard{}

type discard struct{}

func (discard) Add(context.Context, Record) error { return nil }
