package label

import (
	"time"

	"github.com/covxx/paleta/internal/gs1"
	"github.com/covxx/paleta/internal/printer"
)

// Company is the header block printed on the fixed profiles.
type Company struct {
	Name    string
	Address string
}

// Engine renders labels for one company. Construct once at startup and share;
// rendering is pure and safe for concurrent use.
type Engine struct {
	company Company
	now     func() time.Time
}

func NewEngine(company Company) *Engine {
	return &Engine{company: company, now: time.Now}
}

// Render produces the ZPL document for one record, along with the GS1 payload
// it embeds and, for the voice-pick profile only, the computed voice pick
// code. The target is accepted for interface parity with the sheet path; the
// raw-socket profiles are fixed to the production stock and do not rescale
// (see the package comment).
func (e *Engine) Render(rec TraceabilityRecord, target printer.Target, profile Profile) (string, gs1.Payload, *gs1.VoicePickCode, error) {
	if profile == ProfileCustom && rec.Custom == nil {
		return "", gs1.Payload{}, nil, ErrNoCustomFields
	}

	elems, err := templateFor(profile)
	if err != nil {
		return "", gs1.Payload{}, nil, err
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

	rc := &renderContext{
		rec:      rec,
		payload:  payload,
		vp:       vp,
		company:  e.company,
		packDate: packDate.Format("01/02/2006"),
	}

	return renderZPL(elems, rc), payload, vp, nil
}
