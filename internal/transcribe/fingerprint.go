package transcribe

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"lukechampine.com/blake3"

	"github.com/voicedraft/voicedraft/internal/audio"
)

// Fingerprint derives the stable cache key for a request: a blake3 hash over
// the provider id, the canonical params and the normalized payload bytes.
// Keying on content rather than the original reference means two URLs that
// resolve to identical bytes share an entry.
func Fingerprint(id ID, payload *audio.Payload, params Params) string {
	h := blake3.New(32, nil)
	hashField(h, []byte(id))
	hashField(h, []byte(params.Canonical()))
	hashField(h, payload.Data)
	return hex.EncodeToString(h.Sum(nil))
}

// hashField length-prefixes the field so boundaries survive in the hash
// stream no matter what bytes the field itself contains.
func hashField(w io.Writer, b []byte) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
	w.Write(n[:])
	w.Write(b)
}
