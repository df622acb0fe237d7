// Command neutron-inspect is a small read-only debug tool over a
// contract-state data directory: it opens the on-disk store, splits it
// into the journal's and the event index's logical namespaces, and dumps
// human-readable reports. It performs no consensus-relevant writes.
//
// Grounded on main/params.go's buildFlagSet/getViper pflag+viper idiom and
// main/main.go's flag-then-dispatch shape.
package main

import (
	"flag"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	dataDirKey   = "data-dir"
	cacheSizeKey = "code-cache-size"
	addressKey   = "address"
	minHeightKey = "min-height"
	maxHeightKey = "max-height"
	maxResultsKey = "max-results"
)

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("neutron-inspect", flag.ContinueOnError)

	fs.String(dataDirKey, "", "path to the leveldb data directory to inspect")
	fs.Int(cacheSizeKey, 1024, "contract bytecode LRU cache size (read into the config; no subcommand builds a cache)")
	fs.String(addressKey, "", "hex-encoded 20-byte address to query (balance/bytecode/events subcommands)")
	fs.Uint(minHeightKey, 0, "minimum block height for an events query")
	fs.Uint(maxHeightKey, 0, "maximum block height for an events query")
	fs.Int(maxResultsKey, 0, "cap on the number of event results returned, 0 means unbounded")

	return fs
}

// getViper binds buildFlagSet's flags into a Viper environment, following
// main/params.go's getViper exactly.
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

// config is the parsed, validated set of flags a subcommand acts on.
type config struct {
	dataDir       string
	codeCacheSize int
	address       string
	minHeight     uint32
	maxHeight     uint32
	maxResults    int
}

// pflagArgs returns the subcommand and its positional arguments left over
// after buildFlagSet's flags are consumed. Must be called after
// loadConfig (which drives pflag.Parse via getViper).
func pflagArgs() []string {
	return pflag.Args()
}

func loadConfig() (config, error) {
	v, err := getViper()
	if err != nil {
		return config{}, err
	}
	return config{
		dataDir:       v.GetString(dataDirKey),
		codeCacheSize: v.GetInt(cacheSizeKey),
		address:       v.GetString(addressKey),
		minHeight:     uint32(v.GetUint(minHeightKey)),
		maxHeight:     uint32(v.GetUint(maxHeightKey)),
		maxResults:    v.GetInt(maxResultsKey),
	}, nil
}
