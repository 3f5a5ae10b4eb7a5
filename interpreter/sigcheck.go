package interpreter

import "github.com/btcscriptvm/scriptvm/sigverify"

// SigChecker is the external collaborator OP_CHECKSIG,
// OP_CHECKSIGVERIFY, OP_CHECKMULTISIG and OP_CHECKMULTISIGVERIFY defer
// to. It is deliberately opaque about transactions: the engine hands it
// the sub-script following the most recent OP_CODESEPARATOR (per
// spec.md's Non-goal on transaction validation, grounded on the
// teacher's pbegincodehash tracking) and gets back a verdict, without
// the engine ever needing to know what a transaction or a sighash type
// actually is.
type SigChecker interface {
	// CheckSig reports whether vchSig is a valid signature by vchPubKey
	// over whatever digest scriptCode implies, or an error if either is
	// malformed. A false, nil result means "checked, did not verify";
	// it is not a script execution failure by itself.
	CheckSig(scriptCode []byte, vchSig, vchPubKey []byte) (bool, error)
}

// NullChecker is the default SigChecker used when the engine is
// constructed without one: every signature check fails cleanly (no
// error), matching a script VM that has no notion of a signing
// transaction but still needs CHECKSIG's stack effect to be
// deterministic.
type NullChecker struct{}

func (NullChecker) CheckSig(scriptCode []byte, vchSig, vchPubKey []byte) (bool, error) {
	return false, nil
}

// DigestChecker adapts sigverify's raw-digest verifier to the SigChecker
// interface for callers that already have the exact 32-byte message the
// signature was computed over (e.g. a test harness, or a caller doing
// its own sighash computation upstream of this engine).
type DigestChecker struct {
	Digest [32]byte
}

func (d DigestChecker) CheckSig(scriptCode []byte, vchSig, vchPubKey []byte) (bool, error) {
	return sigverify.CheckSig(d.Digest, vchSig, vchPubKey)
}
