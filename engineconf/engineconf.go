// Package engineconf holds the interpreter's per-engine flag record and
// the process-level configuration loader for the cmd/scriptvm binary.
// Grounded on the teacher's conf/conf.go (AppConfig struct-tag shape,
// config.NewConfig("ini", ...) optional file load) and on
// scripts/Interpreter.go / model/Interpreter.go's SCRIPT_VERIFY_*
// bitmask, translated into named booleans.
package engineconf

import (
	"github.com/astaxie/beego/config"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// Flags is the interpreter's per-run configuration. Where the teacher
// packs these into a single int32 bitmask (SCRIPT_VERIFY_*), this
// module uses a struct of named booleans, which is both self-documenting
// at call sites and immune to accidental bit collisions.
type Flags struct {
	// VerifyMinimalPush requires every data push to use the shortest
	// possible encoding (SCRIPT_VERIFY_MINIMALDATA).
	VerifyMinimalPush bool
	// StrictEncoding requires strict-DER, low-S signatures and well-formed
	// public keys in the CHECKSIG family (SCRIPT_VERIFY_STRICTENC). The
	// OP_IF/OP_NOTIF predicate check is gated by MinimalIf, not by this
	// flag.
	StrictEncoding bool
	// RequireCleanStack demands exactly one, truthy element remain after
	// execution (SCRIPT_VERIFY_CLEANSTACK).
	RequireCleanStack bool
	// VerifyP2SH enables the pay-to-script-hash re-execution rule in
	// interpreter.Verify (SCRIPT_VERIFY_P2SH).
	VerifyP2SH bool
	// DiscourageUpgradableNOPs rejects OP_NOP1/OP_NOP4..OP_NOP10 outright
	// instead of treating them as no-ops (SCRIPT_VERIFY_DISCOURAGE_
	// UPGRADABLE_NOPS).
	DiscourageUpgradableNOPs bool
	// MinimalIf requires OP_IF/OP_NOTIF's popped predicate to be exactly
	// an empty array or a single 0x01 byte (SCRIPT_VERIFY_MINIMALIF).
	MinimalIf bool
	// SigPushOnly requires scriptSig to contain only push operations,
	// checked by interpreter.Verify before scriptSig ever runs
	// (SCRIPT_VERIFY_SIGPUSHONLY).
	SigPushOnly bool
	// NullFail requires a failed CHECKSIG/CHECKMULTISIG to have been
	// supplied an empty signature (SCRIPT_VERIFY_NULLFAIL).
	NullFail bool
}

// Standard is the flag set a full consensus-strict verification would
// use; it enables every rule this module implements.
func Standard() Flags {
	return Flags{
		VerifyMinimalPush:        true,
		StrictEncoding:           true,
		RequireCleanStack:        true,
		VerifyP2SH:               true,
		DiscourageUpgradableNOPs: true,
		MinimalIf:                true,
		SigPushOnly:              true,
		NullFail:                 true,
	}
}

// ProcessConfig is the CLI-facing configuration for cmd/scriptvm,
// mirroring conf.AppConfig's go-flags struct-tag idiom scaled down to
// this module's much smaller surface.
type ProcessConfig struct {
	ScriptHex  string `short:"s" long:"script" description:"Hex-encoded script to execute"`
	ScriptFile string `short:"f" long:"file" description:"File containing a hex-encoded script"`
	ConfigFile string `short:"C" long:"configfile" description:"Path to an optional ini configuration file"`
	Dump       bool   `long:"dump" description:"Print a dump of the main stack when execution ends"`
	LogLevel   string `short:"d" long:"debuglevel" description:"Logging level: debug, info, warn, error"`
	Strict     bool   `long:"strict" description:"Enable the standard strict flag set"`
}

// ParseArgs parses argv into a ProcessConfig, matching conf.loadConfig's
// go-flags usage. If cfg.ConfigFile is set, LoadIni additionally applies
// any [Engine] section overrides found there.
func ParseArgs(argv []string) (*ProcessConfig, error) {
	cfg := &ProcessConfig{LogLevel: "info"}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(argv); err != nil {
		return nil, errors.Wrap(err, "engineconf: parsing arguments")
	}
	if cfg.ConfigFile != "" {
		if err := LoadIni(cfg, cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadIni overlays cfg with values from an "[Engine]" section of an ini
// file at path, mirroring the teacher's config.NewConfig("ini", ...)
// call in conf/conf.go. Only fields still at their default are
// overridden: LogLevel when it is "" or "info", Strict when it is false.
// An explicit "-d info" on the command line is therefore indistinguishable
// from the default and is replaced by the file's debuglevel.
func LoadIni(cfg *ProcessConfig, path string) error {
	conf, err := config.NewConfig("ini", path)
	if err != nil {
		return errors.Wrap(err, "engineconf: loading ini config")
	}
	if cfg.LogLevel == "" || cfg.LogLevel == "info" {
		if level := conf.String("Engine::debuglevel"); level != "" {
			cfg.LogLevel = level
		}
	}
	if !cfg.Strict {
		cfg.Strict, _ = conf.Bool("Engine::strict")
	}
	return nil
}

// ToFlags translates the CLI-facing Strict switch into the engine's
// Flags record.
func (c *ProcessConfig) ToFlags() Flags {
	if c.Strict {
		return Standard()
	}
	return Flags{}
}
