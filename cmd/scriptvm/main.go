// Command scriptvm runs a single hex-encoded script against the
// interpreter engine and reports the terminal stack state. Grounded on
// the teacher's cmd/main.go / cli/main.go (flag parsing into a config
// struct, then a small orchestration function) scaled down to this
// module's much narrower CLI surface.
package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/btcscriptvm/scriptvm/engineconf"
	"github.com/btcscriptvm/scriptvm/enginelog"
	"github.com/btcscriptvm/scriptvm/interpreter"
	"github.com/btcscriptvm/scriptvm/script"
	"github.com/btcscriptvm/scriptvm/stack"
)

func main() {
	cfg, err := engineconf.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := enginelog.New(cfg.LogLevel)

	raw, err := loadScript(cfg)
	if err != nil {
		log.Errorf("loading script: %v", err)
		os.Exit(1)
	}

	engine := interpreter.New(cfg.ToFlags())
	st := stack.New()
	log.Infof("executing %d-byte script", len(raw))

	if err := engine.Exec(script.New(raw), st); err != nil {
		log.Errorf("execution failed: %v", err)
		if cfg.Dump {
			spew.Fdump(os.Stderr, st)
		}
		os.Exit(1)
	}

	log.Infof("execution finished, final depth %d", st.Depth())
	if cfg.Dump {
		spew.Fdump(os.Stdout, st)
	}
}

// loadScript resolves the script bytes from either -s/--script (a hex
// string given directly) or -f/--file (a file containing one).
func loadScript(cfg *engineconf.ProcessConfig) ([]byte, error) {
	hexStr := cfg.ScriptHex
	if cfg.ScriptFile != "" {
		data, err := ioutil.ReadFile(cfg.ScriptFile)
		if err != nil {
			return nil, err
		}
		hexStr = string(data)
	}
	hexStr = strings.TrimSpace(hexStr)
	return hex.DecodeString(hexStr)
}
