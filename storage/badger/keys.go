package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	entryPrefix    = "kwent:"
	slugPrefix     = "kwslug:"
	positionSeq    = "kwseq"
	indexMetaKey   = "kwmeta"
	positionLength = 8
)

// makeEntryKey generates a key for the entry at a position.
// Format: prefix + BigEndian position, so key order is insertion order.
func makeEntryKey(pos uint64) []byte {
	buf := make([]byte, len(entryPrefix)+positionLength)
	offset := copy(buf, entryPrefix)
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}

// makeSlugKey generates a key for the slug to position index.
// Format: prefix + slug
func makeSlugKey(slug string) []byte {
	buf := make([]byte, len(slugPrefix)+len(slug))
	offset := copy(buf, slugPrefix)
	copy(buf[offset:], slug)
	return buf
}
