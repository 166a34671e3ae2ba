package ntp

type TimestampEncoded = uint64

type ShortEncoded = uint32

type Mode byte

const (
	RESERVED Mode = iota
	SYMMETRIC_ACTIVE
	SYMMETRIC_PASSIVE
	CLIENT
	SERVER
	BROADCAST_SERVER
	BROADCAST_CLIENT
	RESERVED_PRIVATE_USE
)

const (
	NOSYNC byte = 3 // leap indicator: clock unsynchronized

	VERSION byte = 4

	Port = "123" // NTP port number

	PacketSize = 48 // client/server packet without extensions
)
