package ntprank

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBase is KRISS, the Korean national metrology institute's server.
const DefaultBase = "ntp.kriss.re.kr"

var DefaultServers = []string{
	// Korea / KR-centric
	"ntp.kriss.re.kr",
	"kr.pool.ntp.org",
	"asia.pool.ntp.org",
	"pool.ntp.org",
	"time.bora.net",
	"time.nuri.net",
	"clock.iptime.co.kr",
	// Global public, for comparison and fallback
	"time.google.com",
	"time.cloudflare.com",
	"time.windows.com",
	"time.apple.com",
	"time.facebook.com",
}

// Config is plain data passed into entry points; nothing here is global
// state, so independent jobs can run concurrently with different configs.
type Config struct {
	Servers []string
	Base    string
	Sample  SampleConfig
	Rank    RankOptions
}

func DefaultConfig() Config {
	return Config{
		Servers: DefaultServers,
		Base:    DefaultBase,
		Sample: SampleConfig{
			Samples:      5,
			Timeout:      2 * time.Second,
			SleepBetween: 500 * time.Millisecond,
		},
		Rank: DefaultRankOptions(),
	}
}

// ParseConfig reads a config file of one directive per line ("server
// <host>", "base <host>", "samples <n>", "timeout <seconds>", "sleep
// <seconds>", "maxdelay <ms>", "wdelay <w>", "wjitter <w>"). Directives
// override the built-in defaults; "server" lines replace the default list.
func ParseConfig(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s could not be read: %w", path, err)
	}
	defer file.Close()

	config := DefaultConfig()
	servers := []string{}

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		arguments := strings.Fields(scanner.Text())
		if len(arguments) == 0 || strings.HasPrefix(arguments[0], "#") {
			continue
		}
		if len(arguments) != 2 {
			return Config{}, configParseError(path, line, "directive takes exactly one argument")
		}

		switch arguments[0] {
		case "server":
			servers = append(servers, arguments[1])
		case "base":
			config.Base = arguments[1]
		case "samples":
			n, err := strconv.Atoi(arguments[1])
			if err != nil {
				return Config{}, configParseError(path, line, "invalid samples count")
			}
			config.Sample.Samples = n
		case "timeout":
			d, err := parseSeconds(arguments[1])
			if err != nil {
				return Config{}, configParseError(path, line, "invalid timeout")
			}
			config.Sample.Timeout = d
		case "sleep":
			d, err := parseSeconds(arguments[1])
			if err != nil {
				return Config{}, configParseError(path, line, "invalid sleep")
			}
			config.Sample.SleepBetween = d
		case "maxdelay":
			ms, err := strconv.ParseFloat(arguments[1], 64)
			if err != nil {
				return Config{}, configParseError(path, line, "invalid maxdelay")
			}
			config.Rank.MaxDelayMS = ms
		case "wdelay":
			w, err := strconv.ParseFloat(arguments[1], 64)
			if err != nil {
				return Config{}, configParseError(path, line, "invalid wdelay")
			}
			config.Rank.WDelay = w
		case "wjitter":
			w, err := strconv.ParseFloat(arguments[1], 64)
			if err != nil {
				return Config{}, configParseError(path, line, "invalid wjitter")
			}
			config.Rank.WJitter = w
		default:
			return Config{}, configParseError(path, line, "unknown directive "+strconv.Quote(arguments[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, err
	}

	if len(servers) > 0 {
		config.Servers = servers
	}
	return config, nil
}

func configParseError(path string, line int, message string) error {
	return fmt.Errorf("%s:%d: %s", path, line, message)
}

func parseSeconds(text string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
