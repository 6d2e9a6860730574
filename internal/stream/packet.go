package stream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// LTP-mode packet layout (little-endian):
//
//	offset  size  field
//	0       1     subscription mode
//	1       1     exchange type
//	2       25    token, NUL-padded ASCII
//	27      8     sequence number
//	35      8     exchange timestamp, epoch milliseconds
//	43      8     last traded price, in paise
const ltpPacketSize = 51

// DecodeLTP decodes a binary LTP packet from the feed.
func DecodeLTP(data []byte) (Tick, error) {
	if len(data) < ltpPacketSize {
		return Tick{}, fmt.Errorf("packet too short: %d bytes, want %d", len(data), ltpPacketSize)
	}
	if data[0] != ModeLTP {
		return Tick{}, fmt.Errorf("unexpected subscription mode %d", data[0])
	}

	token := string(bytes.TrimRight(data[2:27], "\x00"))
	tsMillis := int64(binary.LittleEndian.Uint64(data[35:43]))
	paise := int64(binary.LittleEndian.Uint64(data[43:51]))

	return Tick{
		Token: token,
		Ts:    time.UnixMilli(tsMillis),
		LTP:   float64(paise) / 100,
	}, nil
}
