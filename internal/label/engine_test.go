package label

import (
	"strings"
	"testing"
	"time"

	"github.com/covxx/paleta/internal/printer"
)

var testCompany = Company{Name: "Palumbo Foods LLC", Address: "401 Produce Row, Vineland NJ"}

func stdRecord() TraceabilityRecord {
	return TraceabilityRecord{
		GTIN:      "12345678901234",
		LotCode:   "LOT0001202501011200AB12",
		ItemName:  "Grape Tomatoes",
		ItemCode:  "GT-11",
		Quantity:  50,
		UnitLabel: "cases",
		PackDate:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRender_StandardProfile(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	zpl, payload, vp, err := e.Render(stdRecord(), printer.Target{}, ProfileStandard)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if vp != nil {
		t.Fatalf("standard profile must not carry a voice pick code, got %q", vp.Code)
	}
	if payload.LotCode != "00AB12" {
		t.Fatalf("expected short lot 00AB12, got %q", payload.LotCode)
	}
	if !strings.Contains(zpl, "LOT: 00AB12") {
		t.Fatalf("markup missing short lot field:\n%s", zpl)
	}
	if !strings.Contains(zpl, ">;>8"+"0112345678901234"+"15250115"+"1000AB12"+"0000") {
		t.Fatalf("markup missing symbology payload:\n%s", zpl)
	}
	if !strings.Contains(zpl, "QTY: 50 cases") {
		t.Fatalf("markup missing quantity field:\n%s", zpl)
	}
	if !strings.HasPrefix(zpl, "^XA") || !strings.Contains(zpl, "^XZ") {
		t.Fatalf("markup is not a ZPL document:\n%s", zpl)
	}
	if strings.Contains(zpl, ptiBannerText) {
		t.Fatalf("standard profile must not carry the PTI banner")
	}
}

func TestRender_ProfileVoicePickSelection(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	rec := stdRecord()
	rec.Custom = &CustomFields{ProductName: "Grape Tomatoes"}

	for _, tc := range []struct {
		profile Profile
		wantVP  bool
	}{
		{ProfileStandard, false},
		{ProfilePTIFSMA, false},
		{ProfilePTIVoicePick, true},
		{ProfileCustom, false},
	} {
		_, _, vp, err := e.Render(rec, printer.Target{}, tc.profile)
		if err != nil {
			t.Fatalf("%s: Render returned error: %v", tc.profile, err)
		}
		if got := vp != nil; got != tc.wantVP {
			t.Fatalf("%s: voice pick presence = %v, want %v", tc.profile, got, tc.wantVP)
		}
	}
}

func TestRender_PTIBanner(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	for _, profile := range []Profile{ProfilePTIFSMA, ProfilePTIVoicePick} {
		zpl, _, _, err := e.Render(stdRecord(), printer.Target{}, profile)
		if err != nil {
			t.Fatalf("%s: Render returned error: %v", profile, err)
		}
		if !strings.Contains(zpl, ptiBannerText) {
			t.Fatalf("%s: markup missing PTI banner", profile)
		}
	}
}

func TestRender_VoicePickSplitFields(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	rec := stdRecord()
	rec.GTIN = "00850018478243"
	rec.LotCode = "107733"

	zpl, _, vp, err := e.Render(rec, printer.Target{}, ProfilePTIVoicePick)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	// 00850018478243 + 107733 + 250115 hashes to 8754.
	if vp.Code != "8754" {
		t.Fatalf("expected voice pick 8754, got %q", vp.Code)
	}
	if !strings.Contains(zpl, "^FD87^FS") || !strings.Contains(zpl, "^FD54^FS") {
		t.Fatalf("markup missing split voice pick pairs:\n%s", zpl)
	}
}

func TestRender_CustomProfile(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	useBy := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	rec := stdRecord()
	rec.Custom = &CustomFields{
		ProductName:  "Marinated Artichokes",
		UseByDate:    &useBy,
		NetWeight:    "10 lb",
		Ingredients:  "Artichokes, olive oil, garlic",
		Manufacturer: "Palumbo Foods, Vineland NJ",
	}

	zpl, _, _, err := e.Render(rec, printer.Target{}, ProfileCustom)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(zpl, "Marinated Artichokes") {
		t.Fatalf("markup missing product name:\n%s", zpl)
	}
	if !strings.Contains(zpl, "USE BY: 02/01/2025") {
		t.Fatalf("markup missing use-by date:\n%s", zpl)
	}
	if !strings.Contains(zpl, "GROSS WT: "+notSpecified) {
		t.Fatalf("missing gross weight placeholder:\n%s", zpl)
	}
	// Simple GTIN+item-code payload, not the three-AI form.
	if !strings.Contains(zpl, "^FD12345678901234GT-11^FS") {
		t.Fatalf("markup missing simple custom barcode payload:\n%s", zpl)
	}
	if strings.Contains(zpl, ">;>8") {
		t.Fatalf("custom profile must not use the GS1-128 symbology framing:\n%s", zpl)
	}
}

func TestRender_CustomWithoutFields(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	if _, _, _, err := e.Render(stdRecord(), printer.Target{}, ProfileCustom); err == nil {
		t.Fatalf("expected error rendering custom profile without custom fields")
	}
}

func TestRender_SanitizesControlCharacters(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	rec := stdRecord()
	rec.ItemName = "Bad^FD~Name\\Here"

	zpl, _, _, err := e.Render(rec, printer.Target{}, ProfileStandard)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(zpl, "Bad FD Name Here") {
		t.Fatalf("control characters not sanitized:\n%s", zpl)
	}
}

func TestRender_DefaultsPackDateToNow(t *testing.T) {
	t.Parallel()

	e := NewEngine(testCompany)
	e.now = func() time.Time { return time.Date(2025, time.July, 4, 10, 0, 0, 0, time.UTC) }

	rec := stdRecord()
	rec.PackDate = time.Time{}
	_, payload, _, err := e.Render(rec, printer.Target{}, ProfileStandard)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if payload.DateCode != "250704" {
		t.Fatalf("expected defaulted date code 250704, got %q", payload.DateCode)
	}
}

func TestParseProfile(t *testing.T) {
	t.Parallel()

	if p, err := ParseProfile("PTI_VoicePick"); err != nil || p != ProfilePTIVoicePick {
		t.Fatalf("ParseProfile(PTI_VoicePick) = %v, %v", p, err)
	}
	if p, err := ParseProfile(""); err != nil || p != ProfileStandard {
		t.Fatalf("ParseProfile(empty) = %v, %v", p, err)
	}
	if _, err := ParseProfile("bogus"); err == nil {
		t.Fatalf("expected error for unknown profile name")
	}
}
