package label

import (
	"fmt"
	"strings"

	"github.com/covxx/paleta/internal/printer"
)

// previewExcerptLimit caps how much of the generated ZPL the preview shows.
const previewExcerptLimit = 500

// RenderPreview builds the plain-text summary shown in the UI before
// printing: the record's fields plus a truncated excerpt of the ZPL.
func (e *Engine) RenderPreview(rec TraceabilityRecord, profile Profile) (string, error) {
	zpl, payload, vp, err := e.Render(rec, printer.Target{}, profile)
	if err != nil {
		return "", err
	}

	orNS := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return notSpecified
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Profile: %s\n", profile)
	fmt.Fprintf(&b, "Item: %s\n", orNS(rec.ItemName))
	fmt.Fprintf(&b, "Description: %s\n", orNS(rec.ItemDescription))
	fmt.Fprintf(&b, "GTIN: %s\n", orNS(rec.GTIN))
	fmt.Fprintf(&b, "Lot: %s (short: %s)\n", orNS(rec.LotCode), payload.LotCode)
	fmt.Fprintf(&b, "Quantity: %s\n", rec.quantityText())
	fmt.Fprintf(&b, "Pack Date: %s\n", payload.DateCode)
	if rec.ExpiryDate != nil {
		fmt.Fprintf(&b, "Use By: %s\n", rec.ExpiryDate.Format("01/02/2006"))
	}
	fmt.Fprintf(&b, "Vendor: %s\n", orNS(rec.Vendor))
	fmt.Fprintf(&b, "Barcode: %s\n", payload.Human())
	if vp != nil {
		fmt.Fprintf(&b, "Voice Pick: %s (%s %s)\n", vp.Code, vp.SmallPair(), vp.LargePair())
	}
	b.WriteString("--- ZPL ---\n")
	b.WriteString(excerpt(zpl))

	return b.String(), nil
}

func excerpt(s string) string {
	if len(s) <= previewExcerptLimit {
		return s
	}
	return s[:previewExcerptLimit] + "..."
}
