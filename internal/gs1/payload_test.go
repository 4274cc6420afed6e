package gs1

import (
	"strings"
	"testing"
	"time"
)

func TestShortLot(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"A", "A"},
		{"ABC123", "ABC123"},
		{"107733X", "07733X"},
		{"LOT0001202501011200AB12", "00AB12"},
	}
	for _, tc := range cases {
		if got := ShortLot(tc.in); got != tc.want {
			t.Fatalf("ShortLot(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildPayload_Symbology(t *testing.T) {
	t.Parallel()

	p := BuildPayload("12345678901234", "LOT0001202501011200AB12", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))

	want := ">;>8" + "0112345678901234" + "15250115" + "1000AB12" + "0000"
	if got := p.Symbology(); got != want {
		t.Fatalf("symbology = %q, want %q", got, want)
	}
	if !strings.HasPrefix(p.Symbology(), ">;>8") {
		t.Fatalf("symbology missing function-code marker: %q", p.Symbology())
	}
	if !strings.HasSuffix(p.Symbology(), "0000") {
		t.Fatalf("symbology missing trailing pad: %q", p.Symbology())
	}
}

func TestBuildPayload_Human(t *testing.T) {
	t.Parallel()

	p := BuildPayload("00850018478243", "107733", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	want := "(01)00850018478243(15)250115(10)107733"
	if got := p.Human(); got != want {
		t.Fatalf("human form = %q, want %q", got, want)
	}
}

// Re-extracting the AI blocks by their fixed offsets must reproduce the
// inputs: AI 01 is 2+14, AI 15 is 2+6, AI 10 is 2+short-lot.
func TestBuildPayload_RoundTrip(t *testing.T) {
	t.Parallel()

	gtin := "00850018478243"
	lot := "GRN20250101B7"
	d := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	p := BuildPayload(gtin, lot, d)

	data := p.Data()
	if data[0:2] != "01" || data[2:16] != gtin {
		t.Fatalf("AI 01 block mismatch in %q", data)
	}
	if data[16:18] != "15" || data[18:24] != "250309" {
		t.Fatalf("AI 15 block mismatch in %q", data)
	}
	short := ShortLot(lot)
	if data[24:26] != "10" || data[26:26+len(short)] != short {
		t.Fatalf("AI 10 block mismatch in %q", data)
	}
	if data[26+len(short):] != "0000" {
		t.Fatalf("missing pad after lot in %q", data)
	}
}
