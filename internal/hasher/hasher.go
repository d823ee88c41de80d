// Package hasher produces short content hashes for encoded outputs,
// used in fit reports and content-addressed batch filenames.
package hasher

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns it as a hex
// string truncated to hexLen characters (0 or >16 keeps all 16). 64
// bits is collision-safe for practical output counts.
func ContentHash(data []byte, hexLen int) string {
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(data))
	full := hex.EncodeToString(sum[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
