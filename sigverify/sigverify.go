// Package sigverify implements the signature-verifier collaborator
// spec.md §6 specifies by contract only: DER signature parsing, public
// key / signature encoding checks, and ECDSA verification against an
// externally supplied digest. Grounded on the teacher's
// scripts/TxSignatureChecker.go (CheckSig/VerfySinature contract shape);
// the actual elliptic-curve math is delegated to
// decred/dcrd/dcrec/secp256k1, since the teacher's own secp256k1
// binding is a non-portable cgo wrapper this module cannot embed.
package sigverify

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/btcscriptvm/scriptvm/scripterr"
)

// halfOrder is secp256k1's group order N divided by two, the BIP 62
// threshold above which an ECDSA signature's S value is considered
// malleable ("high-S"). ecdsa.Signature does not expose R/S publicly, so
// the low-S check re-derives S from the DER encoding directly with
// math/big; no library in the example pack offers a portable low-S
// predicate over an opaque signature type.
var halfOrder = func() *big.Int {
	n, _ := new(big.Int).SetString("7FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF5D576E7357A4501DDFE92F46681B20A0", 16)
	return n
}()

// HashType bits, appended as the last byte of a script signature.
const (
	HashAll          byte = 0x01
	HashNone         byte = 0x02
	HashSingle       byte = 0x03
	HashAnyoneCanPay byte = 0x80
)

// Flags gate the strict-encoding checks this package performs. The
// interpreter builds them from engineconf.Flags.StrictEncoding; this
// package does not import the interpreter package (avoiding a cycle).
type Flags struct {
	// LowSOnly rejects signatures whose S value is not in the lower
	// half of the curve order (BIP 62 malleability rule).
	LowSOnly bool
	// StrictDER rejects any signature that isn't strict DER.
	StrictDER bool
	// CompressedPubKeyOnly additionally rejects uncompressed public keys.
	CompressedPubKeyOnly bool
}

// HashType returns the sighash type byte trailing sig, or 0 for an empty
// signature.
func HashType(sig []byte) byte {
	if len(sig) == 0 {
		return 0
	}
	return sig[len(sig)-1]
}

// CheckSignatureEncoding validates sig's DER + hash-type shape against
// flags. An empty signature is always accepted (it represents "no
// signature supplied", used by OP_CHECKMULTISIG's dummy element and by
// failed-signature placeholders).
func CheckSignatureEncoding(sig []byte, flags Flags) error {
	if len(sig) == 0 {
		return nil
	}
	if flags.StrictDER {
		if _, err := parseDER(sig[:len(sig)-1]); err != nil {
			return scripterr.Newf(scripterr.BadSignatureEncoding, "%v", err)
		}
	}
	if flags.LowSOnly {
		s, err := parseDER(sig[:len(sig)-1])
		if err == nil && !isLowS(s) {
			return scripterr.New(scripterr.BadSignatureEncoding)
		}
	}
	return nil
}

// CheckPubKeyEncoding validates that pubkey is a well-formed compressed
// (33-byte) or uncompressed (65-byte) SEC1 public key.
func CheckPubKeyEncoding(pubkey []byte, flags Flags) error {
	switch {
	case len(pubkey) == 33 && (pubkey[0] == 0x02 || pubkey[0] == 0x03):
		return nil
	case len(pubkey) == 65 && pubkey[0] == 0x04:
		if flags.CompressedPubKeyOnly {
			return scripterr.New(scripterr.BadPubKeyEncoding)
		}
		return nil
	default:
		return scripterr.New(scripterr.BadPubKeyEncoding)
	}
}

// ParseDERSignature parses a DER-encoded ECDSA signature, discarding the
// trailing sighash-type byte if present (vchSigIn is the raw stack
// element as pushed by the script, which always ends with that byte).
func ParseDERSignature(vchSigIn []byte) (*ecdsa.Signature, error) {
	if len(vchSigIn) == 0 {
		return nil, errors.New("sigverify: empty signature")
	}
	return parseDER(vchSigIn[:len(vchSigIn)-1])
}

func parseDER(der []byte) (*ecdsa.Signature, error) {
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, errors.Wrap(err, "sigverify: malformed DER signature")
	}
	return sig, nil
}

// isLowS reports whether sig's S component is at most halfOrder. It
// reparses the canonical DER encoding sig.Serialize() produces, since
// the S scalar itself is not exported.
func isLowS(sig *ecdsa.Signature) bool {
	s, err := derSValue(sig.Serialize())
	if err != nil {
		return false
	}
	return s.Cmp(halfOrder) <= 0
}

// derSValue extracts the S integer from a DER-encoded ECDSA signature of
// the form SEQUENCE { INTEGER r, INTEGER s }.
func derSValue(der []byte) (*big.Int, error) {
	if len(der) < 8 || der[0] != 0x30 {
		return nil, errors.New("sigverify: not a DER sequence")
	}
	i := 2 // skip tag + sequence length byte (signatures here are always short-form)
	if der[i] != 0x02 {
		return nil, errors.New("sigverify: expected INTEGER for r")
	}
	i++
	rLen := int(der[i])
	i += 1 + rLen
	if i >= len(der) || der[i] != 0x02 {
		return nil, errors.New("sigverify: expected INTEGER for s")
	}
	i++
	sLen := int(der[i])
	i++
	if i+sLen > len(der) {
		return nil, errors.New("sigverify: truncated s value")
	}
	return new(big.Int).SetBytes(der[i : i+sLen]), nil
}

// ParsePubKey parses a compressed or uncompressed SEC1 public key.
func ParsePubKey(vchPubKey []byte) (*secp256k1.PublicKey, error) {
	pk, err := secp256k1.ParsePubKey(vchPubKey)
	if err != nil {
		return nil, errors.Wrap(err, "sigverify: malformed public key")
	}
	return pk, nil
}

// Verify reports whether sig (the DER-encoded signature with its
// trailing hash-type byte stripped) is a valid ECDSA signature by
// pubkey over digest.
func Verify(pubkey *secp256k1.PublicKey, sig *ecdsa.Signature, digest [32]byte) bool {
	return sig.Verify(digest[:], pubkey)
}

// CheckSig is the full OP_CHECKSIG contract: parse both stack elements
// and verify. It never returns an error for "signature does not
// verify" -- that is reported as (false, nil); errors are reserved for
// malformed input.
func CheckSig(digest [32]byte, vchSig, vchPubKey []byte) (bool, error) {
	if len(vchPubKey) == 0 || len(vchSig) == 0 {
		return false, nil
	}
	pubkey, err := ParsePubKey(vchPubKey)
	if err != nil {
		return false, err
	}
	sig, err := ParseDERSignature(vchSig)
	if err != nil {
		return false, err
	}
	return Verify(pubkey, sig, digest), nil
}
