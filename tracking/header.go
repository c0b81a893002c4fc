package tracking

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// HeaderOverhead is the number of bytes reserved immediately in front of
// every region handed out by the grouped allocator. The header records the
// attribution decided at allocation time and is the sole source of truth at
// free time. It occupies a full 64 bytes so the caller-visible region keeps
// the underlying allocator's 64-byte alignment. Reported byte counts include
// this overhead.
const HeaderOverhead = 64

// Header magics distinguish allocations that were traced from allocations
// made while tracking was off or suppressed. Anything else found at free
// time means the header was corrupted or the region never came from a
// grouped allocator, and accounting can no longer be trusted.
const (
	headerMagicTracked   uint32 = 0x67726d74 // "grmt"
	headerMagicUntracked uint32 = 0x67726d75 // "grmu"
)

type header struct {
	magic   uint32
	group   GroupID
	wrapped int
}

// stampHeader writes the allocation header into the first bytes of the full
// wrapped region.
func stampHeader(full []byte, magic uint32, group GroupID, wrapped int) {
	binary.LittleEndian.PutUint32(full[0:], magic)
	binary.LittleEndian.PutUint32(full[4:], uint32(group))
	binary.LittleEndian.PutUint64(full[8:], uint64(wrapped))
}

// headerOf reads the header stamped in front of a caller-visible region. It
// panics on an unrecognised magic: continuing would silently corrupt the
// accounting, and an invalid header indicates memory corruption elsewhere.
func headerOf(b []byte) header {
	raw := unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(b)), -HeaderOverhead)), HeaderOverhead)
	h := header{
		magic:   binary.LittleEndian.Uint32(raw[0:]),
		group:   GroupID(binary.LittleEndian.Uint32(raw[4:])),
		wrapped: int(binary.LittleEndian.Uint64(raw[8:])),
	}
	if h.magic != headerMagicTracked && h.magic != headerMagicUntracked {
		panic(fmt.Sprintf("alloctrack: corrupted allocation header (magic %#x)", h.magic))
	}
	if h.group >= GroupCapacity || h.wrapped < HeaderOverhead {
		panic(fmt.Sprintf("alloctrack: corrupted allocation header (group %d, wrapped %d)", h.group, h.wrapped))
	}
	return h
}

// wrappedRegion rebuilds the full slice originally obtained from the
// underlying allocator, header included, from a caller-visible region.
func wrappedRegion(b []byte, wrapped int) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(b)), -HeaderOverhead)), wrapped)
}
