package ntp

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var ErrPacketTooShort = errors.New("packet shorter than 48 bytes")

// Packet is the on-wire NTP client/server packet without extension fields.
type Packet struct {
	Leap    byte /* leap indicator */
	Version byte /* version number */
	Mode    Mode /* mode */
	FieldsEncoded
}

type FieldsEncoded struct {
	Stratum   byte             /* stratum */
	Poll      int8             /* poll interval */
	Precision int8             /* precision */
	Rootdelay ShortEncoded     /* root delay */
	Rootdisp  ShortEncoded     /* root dispersion */
	Refid     ShortEncoded     /* reference ID */
	Reftime   TimestampEncoded /* reference time */
	Org       TimestampEncoded /* origin timestamp */
	Rec       TimestampEncoded /* receive timestamp */
	Xmt       TimestampEncoded /* transmit timestamp */
}

func EncodePacket(packet Packet) []byte {
	firstByte := (packet.Leap << 6) | (packet.Version << 3) | byte(packet.Mode)

	var buffer bytes.Buffer
	binary.Write(&buffer, binary.BigEndian, firstByte)
	binary.Write(&buffer, binary.BigEndian, &packet.FieldsEncoded)
	return buffer.Bytes()
}

func DecodePacket(encoded []byte) (*Packet, error) {
	if len(encoded) < PacketSize {
		return nil, ErrPacketTooShort
	}

	reader := bytes.NewReader(encoded)
	firstByte, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	leap := firstByte >> 6
	version := (firstByte >> 3) & 0b111
	mode := firstByte & 0b111

	fieldsEncoded := FieldsEncoded{}
	if err := binary.Read(reader, binary.BigEndian, &fieldsEncoded); err != nil {
		return nil, err
	}

	return &Packet{
		Leap:          leap,
		Version:       version,
		Mode:          Mode(mode),
		FieldsEncoded: fieldsEncoded,
	}, nil
}
