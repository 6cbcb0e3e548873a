package rescue

import (
	"golang.org/x/crypto/sha3"
)

// DeriveBytes absorbs seed into SHAKE256 and squeezes n bytes. The output is
// a prefix of the infinite SHAKE256 stream, so DeriveBytes(seed, k) is the
// first k bytes of DeriveBytes(seed, n) for k <= n.
func DeriveBytes(seed []byte, n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	shake := sha3.NewShake256()
	shake.Write(seed)
	out := make([]byte, n)
	shake.Read(out)
	return out
}
