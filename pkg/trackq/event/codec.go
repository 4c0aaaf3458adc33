package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// BatchVersion is the current encoded batch format version.
// Increment when making breaking changes to the event layout.
const BatchVersion = 1

// ErrCorrupt indicates an encoded batch cannot be decoded.
var ErrCorrupt = errors.New("corrupt event batch")

// batch is the persisted envelope around a sequence of events.
type batch struct {
	Version int     `json:"version"`
	Events  []Event `json:"events"`
}

// MarshalBatch encodes events as a single self-describing blob.
func MarshalBatch(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(batch{Version: BatchVersion, Events: events})
	if err != nil {
		return nil, fmt.Errorf("marshal event batch: %w", err)
	}
	return data, nil
}

// UnmarshalBatch decodes a blob written by MarshalBatch.
// See DecodeBatch for the decoding rules.
func UnmarshalBatch(data []byte) ([]Event, error) {
	events, _, err := DecodeBatch(data)
	return events, err
}

// DecodeBatch decodes a blob written by MarshalBatch and reports how many
// records were given a fresh identity.
//
// Unknown fields are ignored and missing optional fields decode to their
// zero values. A record stored without a uuid gets a new one, so callers
// holding the blob must write it back when minted is non-zero or the
// identity will differ on the next read. A bare JSON array (the unversioned
// layout) is accepted. Errors wrap ErrCorrupt; callers treat the whole blob
// as unusable.
func DecodeBatch(data []byte) (events []Event, minted int, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty blob", ErrCorrupt)
	}

	var b batch
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &b.Events); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	} else {
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if b.Version > BatchVersion {
			return nil, 0, fmt.Errorf("%w: version %d is newer than supported %d",
				ErrCorrupt, b.Version, BatchVersion)
		}
	}

	for i := range b.Events {
		if b.Events[i].UUID == uuid.Nil {
			b.Events[i].UUID = uuid.New()
			minted++
		}
	}

	if b.Events == nil {
		b.Events = []Event{}
	}
	return b.Events, minted, nil
}
