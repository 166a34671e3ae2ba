package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/timekit-kr/ntprank/pkg/ntprank"
)

const defaultConfigPath = "/etc/ntprank.conf"

func main() {
	var configPath string
	var base string
	var samples int
	var timeout float64
	var sleep float64
	var maxDelay float64
	var okRate float64
	var top int
	var plain bool
	var daemonize bool
	var attach bool
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to the ntprank config file.")
	flag.StringVar(&base, "base", ntprank.DefaultBase, "Base server to compare the rest against.")
	flag.IntVar(&samples, "samples", 5, "Measurements per server.")
	flag.Float64Var(&timeout, "timeout", 2, "Per-query timeout in seconds.")
	flag.Float64Var(&sleep, "sleep", 0.5, "Pause between samples of one server, in seconds.")
	flag.Float64Var(&maxDelay, "max-delay", 100, "Exclude servers with average delay above this many ms. 0 disables the cutoff.")
	flag.Float64Var(&okRate, "ok-rate", 0.8, "Minimum success rate a recommendation requires.")
	flag.IntVar(&top, "top", 5, "Rows to show in the ranked table. 0 shows all.")
	flag.BoolVar(&plain, "plain", false, "Print a plain table instead of the interactive view.")
	flag.BoolVar(&daemonize, "daemon", false, "Run the monitor daemon. Run again to stop it.")
	flag.BoolVar(&attach, "attach", false, "Attach to a running monitor daemon.")
	flag.Parse()

	config := loadConfig(configPath)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			config.Base = base
		case "samples":
			config.Sample.Samples = samples
		case "timeout":
			config.Sample.Timeout = secondsDuration(timeout)
		case "sleep":
			config.Sample.SleepBetween = secondsDuration(sleep)
		case "max-delay":
			config.Rank.MaxDelayMS = maxDelay
		}
	})
	if servers := flag.Args(); len(servers) > 0 {
		config.Servers = servers
	}

	// NTP_PORT targets a non-standard port, mostly for local testing.
	port := os.Getenv("NTP_PORT")

	switch {
	case attach:
		handleAttachCommand(daemonSocket)
	case daemonize:
		handleDaemonCommand(config, okRate, port)
	case plain:
		handlePlainCommand(config, okRate, top, port)
	default:
		handleRunCommand(config, okRate, top, port)
	}
}

func loadConfig(path string) ntprank.Config {
	config, err := ntprank.ParseConfig(path)
	if err != nil {
		// Only an explicitly requested config file has to exist.
		if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
			return ntprank.DefaultConfig()
		}
		log.Fatal(err)
	}
	return config
}

func secondsDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
