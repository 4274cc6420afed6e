package label

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"github.com/covxx/paleta/internal/gs1"
	"github.com/covxx/paleta/internal/printer"
)

const (
	sheetMarginIn        = 0.25
	defaultLabelWidthIn  = 4.0
	defaultLabelHeightIn = 2.0
)

// RenderSheet lays records out as a grid of labels on Letter pages, one cell
// per copy, paginating when a page fills. Unlike the raw-socket path this
// scales cell content from the printer record's label dimensions.
func (e *Engine) RenderSheet(records []TraceabilityRecord, target printer.Target, profile Profile, copies int) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if copies < 1 {
		copies = 1
	}

	labelW := target.LabelWidthIn
	if labelW <= 0 {
		labelW = defaultLabelWidthIn
	}
	labelH := target.LabelHeightIn
	if labelH <= 0 {
		labelH = defaultLabelHeightIn
	}

	pdf := gofpdf.New("P", "in", "Letter", "")
	pdf.SetTitle("Lot Labels", false)
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	cols := int((pageW - 2*sheetMarginIn) / labelW)
	if cols < 1 {
		cols = 1
	}
	rows := int((pageH - 2*sheetMarginIn) / labelH)
	if rows < 1 {
		rows = 1
	}
	perPage := cols * rows

	cell := 0
	for _, rec := range records {
		if profile == ProfileCustom && rec.Custom == nil {
			return nil, ErrNoCustomFields
		}
		packDate := rec.PackDate
		if packDate.IsZero() {
			packDate = e.now()
		}
		payload := gs1.BuildPayload(rec.GTIN, rec.LotCode, packDate)
		var vp *gs1.VoicePickCode
		if profile == ProfilePTIVoicePick {
			code := gs1.ComputeVoicePick(rec.GTIN, rec.LotCode, &packDate)
			vp = &code
		}

		for c := 0; c < copies; c++ {
			pos := cell % perPage
			if pos == 0 {
				pdf.AddPage()
			}
			x := sheetMarginIn + float64(pos%cols)*labelW
			y := sheetMarginIn + float64(pos/cols)*labelH
			if err := e.drawSheetCell(pdf, rec, payload, vp, profile, x, y, labelW, labelH, cell); err != nil {
				return nil, err
			}
			cell++
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to render label sheet: %w", err)
	}
	return out.Bytes(), nil
}

func (e *Engine) drawSheetCell(pdf *gofpdf.Fpdf, rec TraceabilityRecord, payload gs1.Payload, vp *gs1.VoicePickCode, profile Profile, x, y, w, h float64, cell int) error {
	pdf.SetLineWidth(0.01)
	pdf.Rect(x, y, w, h, "")

	itemName := strings.TrimSpace(rec.ItemName)
	if itemName == "" {
		itemName = notSpecified
	}

	nameFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 14, 7, itemName, w-0.2)
	pdf.SetFont("Helvetica", "B", nameFont)
	pdf.SetXY(x+0.1, y+0.06)
	pdf.CellFormat(w-0.2, 0.24, itemName, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(x+0.1, y+0.32)
	pdf.CellFormat(w-0.2, 0.16, fmt.Sprintf("LOT: %s   QTY: %s", payload.LotCode, rec.quantityText()), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(x+0.1, y+0.48)
	packDate := rec.PackDate
	if packDate.IsZero() {
		packDate = e.now()
	}
	pdf.CellFormat(w-0.2, 0.14, "PACK DATE: "+packDate.Format("01/02/2006"), "", 0, "L", false, 0, "")

	if vp != nil {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(x+w-0.7, y+0.06)
		pdf.CellFormat(0.6, 0.26, vp.LargePair(), "", 0, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(x+w-1.1, y+0.12)
		pdf.CellFormat(0.4, 0.16, vp.SmallPair(), "", 0, "R", false, 0, "")
	}

	barcodeValue := payload.Data()
	if profile == ProfileCustom {
		barcodeValue = rec.GTIN + rec.ItemCode
	}
	barcodePNG, err := renderCode128PNG(barcodeValue, 1200, 260)
	if err != nil {
		return fmt.Errorf("failed to render barcode for lot %s: %w", rec.LotCode, err)
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := fmt.Sprintf("gs1-barcode-%d", cell)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	barH := h * 0.28
	pdf.ImageOptions(imageName, x+0.15, y+h-barH-0.22, w-0.3, barH, false, opt, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(x+0.1, y+h-0.2)
	pdf.CellFormat(w-0.2, 0.14, payload.Human(), "", 0, "C", false, 0, "")

	return nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
