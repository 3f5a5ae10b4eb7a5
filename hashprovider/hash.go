// Package hashprovider implements the hash-provider collaborator
// interface spec.md §6 describes only by contract: SHA-1, SHA-256,
// RIPEMD-160, and the two composite hashes (HASH160, HASH256) the
// crypto opcodes need. Grounded on the teacher's crypto/Hash.go,
// crypto/Sha256.go and util/hash.go.
package hashprovider

import (
	"crypto/sha1" //nolint:gosec // OP_SHA1 is a historical opcode, not a security primitive here.
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for OP_RIPEMD160/OP_HASH160 wire compatibility.
)

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Sha1 returns the SHA-1 digest of data, backing OP_SHA1.
func Sha1(data []byte) [20]byte {
	return sha1.Sum(data)
}

// Ripemd160 returns the RIPEMD-160 digest of data, backing OP_RIPEMD160.
func Ripemd160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data) //nolint:errcheck // ripemd160.digest.Write never errors.
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash160 is RIPEMD160(SHA256(data)), backing OP_HASH160.
func Hash160(data []byte) [20]byte {
	sh := Sha256(data)
	return Ripemd160(sh[:])
}

// Hash256 is SHA256(SHA256(data)), backing OP_HASH256 and the standard
// message-envelope checksum.
func Hash256(data []byte) [32]byte {
	first := Sha256(data)
	return Sha256(first[:])
}
