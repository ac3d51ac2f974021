package hwdesc

import "testing"

func buildRSDPv1(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, RsdpV1Size)
	copy(b, rsdpSignature)
	b[15] = 0 // revision 0
	var sum byte
	for _, c := range b {
		sum += c
	}
	b[8] = byte(-int(sum))
	return b
}

func buildRSDPv2(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, 36)
	copy(b, rsdpSignature)
	b[15] = 2 // revision 2
	putU32(b[20:], 36)
	var sum byte
	for i, c := range b[:RsdpV1Size] {
		if i == 8 {
			continue
		}
		sum += c
	}
	b[8] = byte(-int(sum))

	var extSum byte
	for i, c := range b {
		if i == 32 {
			continue
		}
		extSum += c
	}
	b[32] = byte(-int(extSum))
	return b
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func TestValidateRSDPv1(t *testing.T) {
	b := buildRSDPv1(t)
	length, ok := ValidateRSDP(b)
	if !ok || length != RsdpV1Size {
		t.Fatalf("v1 validation failed: length=%d ok=%v", length, ok)
	}
}

func TestValidateRSDPv2ExtendedChecksum(t *testing.T) {
	b := buildRSDPv2(t)
	length, ok := ValidateRSDP(b)
	if !ok || length != 36 {
		t.Fatalf("v2 validation failed: length=%d ok=%v", length, ok)
	}
}

func TestValidateRSDPRejectsBadSignature(t *testing.T) {
	b := buildRSDPv1(t)
	b[0] = 'X'
	if _, ok := ValidateRSDP(b); ok {
		t.Fatalf("expected rejection of bad signature")
	}
}

func TestValidateRSDPRejectsBadChecksum(t *testing.T) {
	b := buildRSDPv1(t)
	b[8] ^= 0xFF
	if _, ok := ValidateRSDP(b); ok {
		t.Fatalf("expected rejection of bad checksum")
	}
}

func TestValidateRSDPRejectsBadExtendedChecksum(t *testing.T) {
	b := buildRSDPv2(t)
	b[32] ^= 0xFF
	if _, ok := ValidateRSDP(b); ok {
		t.Fatalf("expected rejection of bad extended checksum")
	}
}
