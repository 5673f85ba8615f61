// Package syllable keeps the ordered collection of syllable recordings and
// moves it to and from WAV bytes for persistence and export.
//
// A Store has no internal locking. It belongs to one caller at a time.
package syllable

import (
	"fmt"
	"strconv"
	"strings"

	wav "github.com/zrdimetc/go-wav-syllable"
)

// IndexError reports a slot access that is neither an overwrite nor the next
// sequential append.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("syllable: index %d out of range for %d slots", e.Index, e.Len)
}

// Store is an ordered list of slots. A slot holds a buffer or nothing yet.
// Slots are appended or overwritten, never removed.
type Store struct {
	slots []*wav.Buffer
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Len() int {
	return len(s.slots)
}

// AddSlot appends an empty slot and returns its index.
func (s *Store) AddSlot() int {
	s.slots = append(s.slots, nil)
	return len(s.slots) - 1
}

// Set overwrites slot index, or appends when index equals Len. A nil buffer
// leaves the slot empty.
func (s *Store) Set(index int, b *wav.Buffer) error {
	switch {
	case index < 0 || index > len(s.slots):
		return &IndexError{Index: index, Len: len(s.slots)}
	case index == len(s.slots):
		s.slots = append(s.slots, b)
	default:
		s.slots[index] = b
	}
	return nil
}

// Get returns the buffer in slot index, or nil when the slot is empty or
// does not exist.
func (s *Store) Get(index int) *wav.Buffer {
	if index < 0 || index >= len(s.slots) {
		return nil
	}
	return s.slots[index]
}

// Present returns the loaded buffers in slot order.
func (s *Store) Present() []*wav.Buffer {
	var present []*wav.Buffer
	for _, b := range s.slots {
		if b != nil {
			present = append(present, b)
		}
	}
	return present
}

// SerializeAll encodes every slot. Empty slots stay in place as nil entries
// so indexes line up after a reload.
func (s *Store) SerializeAll() ([][]byte, error) {
	entries := make([][]byte, len(s.slots))
	for i, b := range s.slots {
		if b == nil {
			continue
		}
		data, err := wav.Encode(b)
		if err != nil {
			return nil, fmt.Errorf("encoding slot %d: %w", i, err)
		}
		entries[i] = data
	}
	return entries, nil
}

// RestoreAll replaces the whole store with the decoded entries. Nil entries
// become empty slots. If any entry fails to decode the store is unchanged.
func (s *Store) RestoreAll(entries [][]byte) error {
	slots := make([]*wav.Buffer, len(entries))
	for i, data := range entries {
		if data == nil {
			continue
		}
		b, err := wav.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding slot %d: %w", i, err)
		}
		slots[i] = b
	}
	s.slots = slots
	return nil
}

// ExportMerged concatenates the loaded slots in order and encodes the result.
func (s *Store) ExportMerged() ([]byte, error) {
	merged, err := wav.Concatenate(s.slots)
	if err != nil {
		return nil, fmt.Errorf("merging syllables: %w", err)
	}
	return wav.Encode(merged)
}

const slotPrefix = "syllable"

// SlotName is the 1-based identifier a select list shows for slot index.
func SlotName(index int) string {
	return slotPrefix + strconv.Itoa(index+1)
}

// ParseSlotName is the inverse of SlotName.
func ParseSlotName(name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(name, slotPrefix))
	if err != nil || !strings.HasPrefix(name, slotPrefix) || n < 1 {
		return 0, fmt.Errorf("syllable: invalid slot name %q", name)
	}
	return n - 1, nil
}
