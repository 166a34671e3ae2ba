package ntprank

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/timekit-kr/ntprank/internal/ntp"
)

var ErrTimeout = errors.New("timed out waiting for NTP reply")

// ResponseError marks a reply that arrived but cannot be trusted: wrong
// mode, unsynchronized server, kiss-of-death, or a bogus originate echo.
type ResponseError struct {
	Reason string
}

func (e *ResponseError) Error() string {
	return "invalid NTP response: " + e.Reason
}

// Sample is one successful measurement against a server.
type Sample struct {
	OffsetMS float64
	DelayMS  float64
	Time     time.Time
}

// Querier runs a single NTP exchange. Client is the UDP implementation;
// tests substitute stubs.
type Querier interface {
	Query(server string, timeout time.Duration) (Sample, error)
}

// Client queries NTP servers over UDP with a fresh socket per exchange.
// The zero value queries port 123 with protocol version 4.
type Client struct {
	Port    string
	Version byte
}

func (c *Client) Query(server string, timeout time.Duration) (Sample, error) {
	if timeout <= 0 {
		return Sample{}, fmt.Errorf("timeout must be > 0, got %v", timeout)
	}

	port := c.Port
	if port == "" {
		port = ntp.Port
	}
	version := c.Version
	if version == 0 {
		version = ntp.VERSION
	}

	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(server, port))
	if err != nil {
		return Sample{}, fmt.Errorf("resolving %s: %w", server, err)
	}

	con, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return Sample{}, fmt.Errorf("dialing %s: %w", server, err)
	}
	defer con.Close()

	if err := con.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Sample{}, err
	}

	t1 := ntp.GetSystemTime()
	request := ntp.Packet{Version: version, Mode: ntp.CLIENT}
	request.Xmt = t1

	if _, err := con.Write(ntp.EncodePacket(request)); err != nil {
		return Sample{}, fmt.Errorf("sending to %s: %w", server, err)
	}

	buffer := make([]byte, 512)
	n, err := con.Read(buffer)
	t4 := ntp.GetSystemTime()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Sample{}, ErrTimeout
		}
		return Sample{}, fmt.Errorf("receiving from %s: %w", server, err)
	}

	reply, err := ntp.DecodePacket(buffer[:n])
	if err != nil {
		return Sample{}, &ResponseError{Reason: err.Error()}
	}
	if err := validateReply(reply, t1); err != nil {
		return Sample{}, err
	}

	// Offset and delay from the four timestamps: differences are taken on
	// the encoded values so precision survives the 1900-era magnitudes.
	offset := (ntp.NTPTimestampDifferenceToDouble(int64(reply.Rec-t1)) +
		ntp.NTPTimestampDifferenceToDouble(int64(reply.Xmt-t4))) / 2
	delay := ntp.NTPTimestampDifferenceToDouble(int64(t4-t1)) -
		ntp.NTPTimestampDifferenceToDouble(int64(reply.Xmt-reply.Rec))

	// Negative delay happens under clock skew or asymmetric paths. It is
	// reported as measured, not treated as a failure.
	return Sample{
		OffsetMS: offset * 1e3,
		DelayMS:  delay * 1e3,
		Time:     ntp.NTPTimestampToTime(t4),
	}, nil
}

func validateReply(reply *ntp.Packet, xmt ntp.TimestampEncoded) error {
	if reply.Mode != ntp.SERVER {
		return &ResponseError{Reason: fmt.Sprintf("mode %d is not a server reply", reply.Mode)}
	}
	if reply.Leap == ntp.NOSYNC {
		return &ResponseError{Reason: "server clock unsynchronized (LI=3)"}
	}
	if reply.Stratum == 0 {
		return &ResponseError{Reason: "kiss-of-death or unspecified stratum"}
	}
	if reply.Org != xmt {
		return &ResponseError{Reason: "originate timestamp does not echo request"}
	}
	return nil
}
