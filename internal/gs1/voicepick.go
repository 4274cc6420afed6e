// Package gs1 builds the GS1-128 Application Identifier payloads and the PTI
// voice pick checksum that go onto traceability labels.
package gs1

import (
	"fmt"
	"time"
)

// VoicePickCode is the 4-digit PTI checksum printed on voice-pick labels. The
// PTI label convention renders it as two pairs in different font sizes, so the
// leading and trailing pairs are addressable separately.
type VoicePickCode struct {
	Code string
}

// SmallPair is the leading two digits, printed in the smaller font.
func (v VoicePickCode) SmallPair() string {
	return v.Code[:2]
}

// LargePair is the trailing two digits, printed in the larger font.
func (v VoicePickCode) LargePair() string {
	return v.Code[2:]
}

func (v VoicePickCode) String() string {
	return v.Code
}

// Reflected form of the ANSI CRC-16 generator polynomial. The PTI spec
// requires this exact variant (CRC-16/ARC, seed 0).
const crc16Poly = 0xA001

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 == 1 {
				crc = (crc >> 1) ^ crc16Poly
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// ComputeVoicePick derives the voice pick code from a GTIN and lot code. When
// packDate is non-nil its YYMMDD form participates in the hash, per the PTI
// case-label rules. Inputs are hashed verbatim; empty strings simply
// contribute nothing.
func ComputeVoicePick(gtin, lotCode string, packDate *time.Time) VoicePickCode {
	plain := gtin + lotCode
	if packDate != nil {
		plain += packDate.Format(dateLayout)
	}
	crc := crc16([]byte(plain))
	return VoicePickCode{Code: fmt.Sprintf("%04d", crc%10000)}
}
