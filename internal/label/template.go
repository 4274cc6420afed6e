package label

import (
	"fmt"
	"strings"

	"github.com/covxx/paleta/internal/gs1"
)

// Canvas for the production stock: 4"x2" at 203 dpi.
const (
	labelWidthDots  = 812
	labelHeightDots = 406
)

const ptiBannerText = "PTI FSMA COMPLIANT"

const notSpecified = "Not specified"

type elementKind int

const (
	elemText elementKind = iota
	elemBarcode
)

// renderContext carries everything a field binding can draw from.
type renderContext struct {
	rec      TraceabilityRecord
	payload  gs1.Payload
	vp       *gs1.VoicePickCode
	company  Company
	packDate string // MM/DD/YYYY display form
}

// element is one field binding: a position, a font or bar geometry, and a
// content selector. Profiles are element lists, so a new layout is a data
// change rather than new rendering code.
type element struct {
	kind       elementKind
	x, y       int
	fontH      int
	fontW      int
	barHeight  int
	moduleW    int
	blockWidth int // wraps text with ^FB when non-zero
	blockLines int
	raw        bool // skip control-character sanitizing (trusted payloads only)
	value      func(rc *renderContext) string
}

func text(x, y, size int, value func(rc *renderContext) string) element {
	return element{kind: elemText, x: x, y: y, fontH: size, fontW: size, value: value}
}

func block(x, y, size, width, lines int, value func(rc *renderContext) string) element {
	return element{kind: elemText, x: x, y: y, fontH: size, fontW: size, blockWidth: width, blockLines: lines, value: value}
}

func barcodeElem(x, y, height, module int, value func(rc *renderContext) string) element {
	return element{kind: elemBarcode, x: x, y: y, barHeight: height, moduleW: module, raw: true, value: value}
}

func literal(s string) func(rc *renderContext) string {
	return func(*renderContext) string { return s }
}

// caseElements is the shared core of the fixed-size case label. offsetY moves
// the whole body down to make room for the PTI banner; barHeight shrinks the
// symbol accordingly so the interpretation line stays on the stock.
func caseElements(offsetY, barHeight int) []element {
	return []element{
		text(20, 16+offsetY, 28, func(rc *renderContext) string { return rc.company.Name }),
		text(20, 50+offsetY, 20, func(rc *renderContext) string { return rc.company.Address }),
		text(20, 88+offsetY, 34, func(rc *renderContext) string { return rc.rec.ItemName }),
		text(20, 132+offsetY, 28, func(rc *renderContext) string { return "LOT: " + rc.payload.LotCode }),
		text(430, 132+offsetY, 28, func(rc *renderContext) string { return "QTY: " + rc.rec.quantityText() }),
		text(20, 168+offsetY, 22, func(rc *renderContext) string { return "PACK DATE: " + rc.packDate }),
		barcodeElem(60, 210+offsetY, barHeight, 2, func(rc *renderContext) string { return rc.payload.Symbology() }),
	}
}

func ptiElements() []element {
	elems := []element{text(252, 8, 24, literal(ptiBannerText))}
	return append(elems, caseElements(36, 90)...)
}

func voicePickElements() []element {
	elems := ptiElements()
	return append(elems,
		// PTI two-font convention: small leading pair, large trailing pair.
		text(636, 60, 36, func(rc *renderContext) string { return rc.vp.SmallPair() }),
		element{kind: elemText, x: 700, y: 28, fontH: 72, fontW: 72, value: func(rc *renderContext) string { return rc.vp.LargePair() }},
	)
}

func customElements() []element {
	orNS := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return notSpecified
		}
		return s
	}
	dateOrNS := func(rc *renderContext, ptr string) string {
		c := rc.rec.Custom
		switch ptr {
		case "pack":
			if c.PackDate != nil {
				return c.PackDate.Format("01/02/2006")
			}
			return rc.packDate
		case "useby":
			if c.UseByDate != nil {
				return c.UseByDate.Format("01/02/2006")
			}
			return notSpecified
		}
		return notSpecified
	}
	return []element{
		text(20, 16, 36, func(rc *renderContext) string { return orNS(rc.rec.Custom.ProductName) }),
		text(20, 64, 22, func(rc *renderContext) string { return "PACK: " + dateOrNS(rc, "pack") }),
		text(300, 64, 22, func(rc *renderContext) string { return "USE BY: " + dateOrNS(rc, "useby") }),
		text(20, 98, 22, func(rc *renderContext) string { return "NET WT: " + orNS(rc.rec.Custom.NetWeight) }),
		text(300, 98, 22, func(rc *renderContext) string { return "GROSS WT: " + orNS(rc.rec.Custom.GrossWeight) }),
		text(20, 132, 18, literal("INGREDIENTS:")),
		block(20, 154, 18, 772, 3, func(rc *renderContext) string { return orNS(rc.rec.Custom.Ingredients) }),
		block(440, 230, 18, 350, 3, func(rc *renderContext) string { return orNS(rc.rec.Custom.Manufacturer) }),
		// Custom labels carry the simple GTIN+item-code payload, not the
		// three-AI traceability form.
		barcodeElem(40, 262, 70, 2, func(rc *renderContext) string { return rc.rec.GTIN + rc.rec.ItemCode }),
	}
}

func templateFor(profile Profile) ([]element, error) {
	switch profile {
	case ProfileStandard:
		return caseElements(0, 110), nil
	case ProfilePTIFSMA:
		return ptiElements(), nil
	case ProfilePTIVoicePick:
		return voicePickElements(), nil
	case ProfileCustom:
		return customElements(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, profile)
	}
}

func renderZPL(elems []element, rc *renderContext) string {
	var b strings.Builder
	b.WriteString("^XA\n")
	b.WriteString(fmt.Sprintf("^PW%d\n", labelWidthDots))
	b.WriteString(fmt.Sprintf("^LL%d\n", labelHeightDots))
	b.WriteString("^LH0,0\n")

	for _, el := range elems {
		v := el.value(rc)
		if !el.raw {
			v = sanitizeZPL(v)
		}
		if v == "" {
			continue
		}
		switch el.kind {
		case elemText:
			if el.blockWidth > 0 {
				b.WriteString(fmt.Sprintf("^FO%d,%d^A0N,%d,%d^FB%d,%d,0,L^FD%s^FS\n",
					el.x, el.y, el.fontH, el.fontW, el.blockWidth, el.blockLines, v))
			} else {
				b.WriteString(fmt.Sprintf("^FO%d,%d^A0N,%d,%d^FD%s^FS\n",
					el.x, el.y, el.fontH, el.fontW, v))
			}
		case elemBarcode:
			b.WriteString(fmt.Sprintf("^FO%d,%d^BY%d^BCN,%d,Y,N,N^FD%s^FS\n",
				el.x, el.y, el.moduleW, el.barHeight, v))
		}
	}

	b.WriteString("^PQ1\n")
	b.WriteString("^XZ\n")
	return b.String()
}

// sanitizeZPL strips the characters that act as command or escape prefixes in
// ZPL so free text cannot break out of its field. The original deployment
// embedded text raw; this is a deliberate hardening change.
var zplSanitizer = strings.NewReplacer(
	"^", " ",
	"~", " ",
	`\`, " ",
	"\r", " ",
	"\n", " ",
)

func sanitizeZPL(s string) string {
	return zplSanitizer.Replace(s)
}
