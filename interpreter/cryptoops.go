package interpreter

import (
	"github.com/btcscriptvm/scriptvm/hashprovider"
	"github.com/btcscriptvm/scriptvm/opcode"
	"github.com/btcscriptvm/scriptvm/script"
	"github.com/btcscriptvm/scriptvm/scriptnum"
	"github.com/btcscriptvm/scriptvm/scripterr"
	"github.com/btcscriptvm/scriptvm/sigverify"
	"github.com/btcscriptvm/scriptvm/stack"
)

type cryptoOpFunc func(e *Engine, st *stack.Stack, state *execState, s *script.Script) error

var cryptoOps = map[opcode.Op]cryptoOpFunc{
	opcode.OP_RIPEMD160: opHash(func(b []byte) []byte { h := hashprovider.Ripemd160(b); return h[:] }),
	opcode.OP_SHA1:      opHash(func(b []byte) []byte { h := hashprovider.Sha1(b); return h[:] }),
	opcode.OP_SHA256:    opHash(func(b []byte) []byte { h := hashprovider.Sha256(b); return h[:] }),
	opcode.OP_HASH160:   opHash(func(b []byte) []byte { h := hashprovider.Hash160(b); return h[:] }),
	opcode.OP_HASH256:   opHash(func(b []byte) []byte { h := hashprovider.Hash256(b); return h[:] }),

	opcode.OP_CHECKSIG:            opCheckSig,
	opcode.OP_CHECKSIGVERIFY:      opCheckSigVerify,
	opcode.OP_CHECKMULTISIG:       opCheckMultiSig,
	opcode.OP_CHECKMULTISIGVERIFY: opCheckMultiSigVerify,
}

func opHash(f func([]byte) []byte) cryptoOpFunc {
	return func(e *Engine, st *stack.Stack, state *execState, s *script.Script) error {
		v, err := st.Pop()
		if err != nil {
			return err
		}
		return st.Push(f(v))
	}
}

// scriptCode returns the sub-script starting at the most recent
// OP_CODESEPARATOR, the digest input CHECKSIG/CHECKMULTISIG hand to the
// SigChecker, matching the teacher's pbegincodehash tracking.
func scriptCode(s *script.Script, state *execState) []byte {
	if state.beginCodeAt >= s.Len() {
		return nil
	}
	return s.Bytes()[state.beginCodeAt:]
}

func opCheckSig(e *Engine, st *stack.Stack, state *execState, s *script.Script) error {
	ok, err := checkSigOnce(e, st, state, s)
	if err != nil {
		return err
	}
	if ok {
		return st.Push(trueCell)
	}
	return st.Push(falseCell)
}

func opCheckSigVerify(e *Engine, st *stack.Stack, state *execState, s *script.Script) error {
	ok, err := checkSigOnce(e, st, state, s)
	if err != nil {
		return err
	}
	if !ok {
		return scripterr.New(scripterr.VerifyFailed)
	}
	return nil
}

func checkSigOnce(e *Engine, st *stack.Stack, state *execState, s *script.Script) (bool, error) {
	vchPubKey, err := st.Pop()
	if err != nil {
		return false, err
	}
	vchSig, err := st.Pop()
	if err != nil {
		return false, err
	}
	if err := checkSigEncodingFlags(e, vchSig, vchPubKey); err != nil {
		return false, err
	}
	ok, err := e.Checker.CheckSig(scriptCode(s, state), vchSig, vchPubKey)
	if err != nil {
		return false, err
	}
	if !ok && e.Flags.NullFail && len(vchSig) > 0 {
		return false, scripterr.New(scripterr.NullFail)
	}
	return ok, nil
}

func checkSigEncodingFlags(e *Engine, vchSig, vchPubKey []byte) error {
	if !e.Flags.StrictEncoding {
		return nil
	}
	flags := sigverify.Flags{StrictDER: true, LowSOnly: true}
	if err := sigverify.CheckSignatureEncoding(vchSig, flags); err != nil {
		return err
	}
	return sigverify.CheckPubKeyEncoding(vchPubKey, flags)
}

func opCheckMultiSig(e *Engine, st *stack.Stack, state *execState, s *script.Script) error {
	ok, err := checkMultiSigOnce(e, st, state, s)
	if err != nil {
		return err
	}
	if ok {
		return st.Push(trueCell)
	}
	return st.Push(falseCell)
}

func opCheckMultiSigVerify(e *Engine, st *stack.Stack, state *execState, s *script.Script) error {
	ok, err := checkMultiSigOnce(e, st, state, s)
	if err != nil {
		return err
	}
	if !ok {
		return scripterr.New(scripterr.VerifyFailed)
	}
	return nil
}

// checkMultiSigOnce implements ([sig...] nSigs [pubkey...] nKeys --
// bool), grounded on the teacher's OP_CHECKMULTISIG body including its
// documented historical quirk of consuming one extra, unchecked stack
// argument (kept here since spec.md's Non-goals don't ask for a
// consensus-breaking redesign of CHECKMULTISIG's stack shape).
func checkMultiSigOnce(e *Engine, st *stack.Stack, state *execState, s *script.Script) (bool, error) {
	nKeysRaw, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return false, err
	}
	nKeys := scriptnum.Int32(nKeysRaw)
	if nKeys < 0 || int(nKeys) > script.MaxOpsPerScript {
		return false, scripterr.New(scripterr.OpCount)
	}
	pubkeys := make([][]byte, nKeys)
	for i := int32(0); i < nKeys; i++ {
		pk, err := st.Pop()
		if err != nil {
			return false, err
		}
		pubkeys[i] = pk
	}

	nSigsRaw, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return false, err
	}
	nSigs := scriptnum.Int32(nSigsRaw)
	if nSigs < 0 || nSigs > nKeys {
		return false, scripterr.New(scripterr.OpCount)
	}
	sigs := make([][]byte, nSigs)
	for i := int32(0); i < nSigs; i++ {
		sig, err := st.Pop()
		if err != nil {
			return false, err
		}
		sigs[i] = sig
	}

	// The historical off-by-one bug: CHECKMULTISIG always pops one extra
	// argument that is never inspected. NullFail still requires it be
	// empty when the operation as a whole fails.
	dummy, err := st.Pop()
	if err != nil {
		return false, err
	}

	code := scriptCode(s, state)
	keyIdx, sigIdx := 0, 0
	success := true
	for sigIdx < len(sigs) {
		if int32(len(sigs)-sigIdx) > nKeys-int32(keyIdx) {
			success = false
			break
		}
		if err := checkSigEncodingFlags(e, sigs[sigIdx], pubkeys[keyIdx]); err != nil {
			return false, err
		}
		ok, err := e.Checker.CheckSig(code, sigs[sigIdx], pubkeys[keyIdx])
		if err != nil {
			return false, err
		}
		if ok {
			sigIdx++
		}
		keyIdx++
	}
	success = success && sigIdx == len(sigs)

	if !success && e.Flags.NullFail && len(dummy) > 0 {
		return false, scripterr.New(scripterr.NullFail)
	}
	return success, nil
}
