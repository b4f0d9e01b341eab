// Package gdl90 decodes the AHRS report that iLevil and Stratux devices broadcast in
// GDL90 framing.
package gdl90

import (
	"errors"
	"fmt"
)

// GDL90 framing and the iLevil AHRS message identifiers
const (
	Flag          = 0x7e  // frame delimiter
	ControlEscape = 0x7d  // byte stuffing escape
	CompanyID     = "LE"  // iLevil CompanyID
	PIDAHRS       = 0x01  // AHRS PackageID
	PIDAHRS1      = 0x01  // AHRS PackageID Version 1
	IntErr        = 32767 // invalid value for int16 fields
	UintErr       = 65535 // invalid value for uint16 fields

	ahrsLen = 28 // unstuffed, including both flags
)

var (
	ErrFrame   = errors.New("gdl90: bad frame")
	ErrCRC     = errors.New("gdl90: CRC mismatch")
	ErrInvalid = errors.New("gdl90: invalid value")
)

var crcTable [256]uint16

func init() {
	for i := range crcTable {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		crcTable[i] = crc
	}
}

// CRC computes the GDL90 frame check sequence of a clear (unstuffed) message.
func CRC(msg []byte) (crc uint16) {
	for _, b := range msg {
		crc = crcTable[crc>>8] ^ crc<<8 ^ uint16(b)
	}
	return
}

// unstuff reverses the byte stuffing of the bytes between the flags.
func unstuff(b []byte) (out []byte, err error) {
	out = make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == ControlEscape {
			i++
			if i == len(b) {
				return nil, fmt.Errorf("%w: dangling escape", ErrFrame)
			}
			out = append(out, b[i]^0x20)
			continue
		}
		out = append(out, b[i])
	}
	return
}

func stuff(b []byte) (out []byte) {
	out = make([]byte, 0, len(b)+4)
	for _, c := range b {
		if c == Flag || c == ControlEscape {
			out = append(out, ControlEscape, c^0x20)
			continue
		}
		out = append(out, c)
	}
	return
}

// Frames splits a datagram into the flag delimited frames it holds, flags included.
// A closing flag also opens the next frame, so frames may share a flag.
func Frames(b []byte) (frames [][]byte) {
	start := -1
	for i, c := range b {
		if c != Flag {
			continue
		}
		if start >= 0 && i > start+1 {
			frames = append(frames, b[start:i+1])
		}
		start = i
	}
	return
}
