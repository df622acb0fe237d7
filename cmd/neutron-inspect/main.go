package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/inconshreveable/log15"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/eventindex"
	"github.com/qtumproject/neutron-core/journal"
	"github.com/qtumproject/neutron-core/kvstore"
)

var inspectLog = log15.New("pkg", "neutron-inspect")

// deltaDBPrefix/eventDBPrefix namespace one on-disk leveldb handle into
// the journal's and the event index's logical stores, exactly as
// state.go splits one baseDB into singletonDB/blockDB via prefixdb.
var (
	deltaDBPrefix = []byte("delta")
	eventDBPrefix = []byte("event")
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't parse flags: %s\n", err)
		os.Exit(1)
	}

	if err := validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %s\n", err)
		os.Exit(1)
	}

	if err := run(cfg, pflagArgs()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func validate(cfg config) error {
	errs := wrappers.Errs{}
	errs.Add(requireNonEmpty(dataDirKey, cfg.dataDir))
	if cfg.address != "" {
		errs.Add(requireHexAddress(cfg.address))
	}
	return errs.Err
}

func requireNonEmpty(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", name)
	}
	return nil
}

func requireHexAddress(value string) error {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return fmt.Errorf("address must be hex-encoded: %w", err)
	}
	if len(raw) != address.DataSize {
		return fmt.Errorf("address must be %d bytes, got %d", address.DataSize, len(raw))
	}
	return nil
}

func run(cfg config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: neutron-inspect --data-dir=PATH <balance|bytecode|events|report> [flags]")
	}

	db, err := leveldb.New(cfg.dataDir, nil, logging.NoLog{})
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.dataDir, err)
	}
	defer db.Close()

	deltaStore := kvstore.Wrap(prefixdb.New(deltaDBPrefix, db))
	eventStore := kvstore.Wrap(prefixdb.New(eventDBPrefix, db))

	w := journal.New(deltaStore)
	e := eventindex.New(eventStore)

	switch args[0] {
	case "balance":
		return dumpBalance(w, cfg)
	case "bytecode":
		return dumpBytecode(w, cfg)
	case "events":
		return dumpEvents(e, cfg)
	case "report":
		return dumpReport(w)
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

// dumpReport prints the journal's uncommitted top checkpoint, mirroring
// DeltaCheckpoint::toJSON. run opens a fresh journal on every invocation
// and no subcommand writes to it, so from the command line the report
// shows an empty checkpoint.
func dumpReport(w *journal.Wrapper) error {
	report := w.LatestModifiedState().Report()
	fmt.Printf("%+v\n", report)
	return nil
}

func parseAddress(cfg config) (address.Address, error) {
	raw, err := hex.DecodeString(cfg.address)
	if err != nil {
		return address.Address{}, err
	}
	return address.New(address.Evm, raw), nil
}

func dumpBalance(w *journal.Wrapper, cfg config) error {
	a, err := parseAddress(cfg)
	if err != nil {
		return err
	}
	balance, err := w.GetBalance(a)
	if err != nil {
		return fmt.Errorf("reading balance: %w", err)
	}
	fmt.Printf("%s: %d\n", a, balance)
	return nil
}

func dumpBytecode(w *journal.Wrapper, cfg config) error {
	a, err := parseAddress(cfg)
	if err != nil {
		return err
	}
	code, found, err := w.ReadByteCode(a)
	if err != nil {
		return fmt.Errorf("reading bytecode: %w", err)
	}
	if !found {
		fmt.Printf("%s: no bytecode\n", a)
		return nil
	}
	fmt.Printf("%s: %d bytes\n", a, len(code))
	return nil
}

func dumpEvents(e *eventindex.EventDB, cfg config) error {
	a, err := parseAddress(cfg)
	if err != nil {
		return err
	}
	results, err := e.GetResults(a, cfg.minHeight, cfg.maxHeight, cfg.maxResults)
	if err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	inspectLog.Info("events dumped", "address", a.String(), "count", len(results))
	for _, r := range results {
		fmt.Printf("height-range-result: block=%x status=%s\n", r.BlockHash, r.Status)
	}
	return nil
}
