package ntp

import (
	"math"
	"time"

	"golang.org/x/sys/unix"
)

const (
	EraLength     int64 = 4_294_967_296 // 2^32
	UnixEraOffset int64 = 2_208_988_800 // 1970 - 1900 in seconds
)

// GetSystemTime reads the realtime clock as an NTP-era timestamp.
func GetSystemTime() TimestampEncoded {
	var unixTime unix.Timespec
	unix.ClockGettime(unix.CLOCK_REALTIME, &unixTime)
	return UnixToNTPTimestampEncoded(unixTime)
}

func UnixToNTPTimestampEncoded(time unix.Timespec) TimestampEncoded {
	return TimestampEncoded((time.Sec+UnixEraOffset)<<32) +
		TimestampEncoded(float64(time.Nsec)/1e9*float64(EraLength))
}

func TimeToNTPTimestampEncoded(t time.Time) TimestampEncoded {
	return UnixToNTPTimestampEncoded(unix.Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())})
}

func DoubleToNTPTimestampEncoded(offset float64) TimestampEncoded {
	return TimestampEncoded(offset * float64(EraLength))
}

func NTPTimestampEncodedToDouble(ntpTimestamp TimestampEncoded) float64 {
	return float64(ntpTimestamp) / float64(EraLength)
}

// NTPTimestampDifferenceToDouble converts a timestamp difference to seconds.
// Differences stay exact in int64 even when the timestamps themselves exceed
// float64 precision, so all offset/delay math goes through here.
func NTPTimestampDifferenceToDouble(difference int64) float64 {
	return float64(difference) / float64(EraLength)
}

func NTPTimestampToTime(ntpTimestamp TimestampEncoded) time.Time {
	Sec := int64(ntpTimestamp >> 32)
	Usec := int32(math.Round(float64(int64(ntpTimestamp)-(Sec<<
		32)) / float64(EraLength) * 1e6))
	Sec -= UnixEraOffset
	return time.Unix(Sec, int64(Usec)*1e3)
}
