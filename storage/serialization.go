package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/sciencepedia/core"
)

// MarshalPosition serializes an entry position to bytes.
func MarshalPosition(pos uint64) []byte {
	buf := make([]byte, varint.Uint64.Size(pos))
	varint.Uint64.Marshal(pos, buf)
	return buf
}

// UnmarshalPosition deserializes an entry position from bytes.
func UnmarshalPosition(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, ErrTruncatedData
	}
	pos, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, wrapDecodeErr(err)
	}
	return pos, nil
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *core.Entry) []byte {
	buf := make([]byte, core.EntryMUS.Size(*entry))
	core.EntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*core.Entry, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	entry, n, err := core.EntryMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &entry, nil
}

// MarshalIndexMeta serializes IndexMeta to bytes.
func MarshalIndexMeta(meta *core.IndexMeta) []byte {
	buf := make([]byte, core.IndexMetaMUS.Size(*meta))
	core.IndexMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalIndexMeta deserializes IndexMeta from bytes.
func UnmarshalIndexMeta(data []byte) (*core.IndexMeta, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	meta, _, err := core.IndexMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	return &meta, nil
}

func wrapDecodeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}
