// Package label renders traceability case labels: ZPL documents for the
// raw-socket printer fleet and paged PDF sheets for document output.
//
// The raw ZPL profiles use absolute coordinates tuned for the production
// label stock (4"x2" at 203 dpi) and deliberately do not rescale from the
// printer record; only the PDF sheet path scales from the stored label
// dimensions.
package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownProfile = errors.New("unknown label profile")
	ErrNoCustomFields = errors.New("custom profile requires custom fields")
	ErrNoRecords      = errors.New("no records to render")
)

// TraceabilityRecord is the label-facing snapshot of a lot and its item.
// Built fresh per print request by the store; immutable for one render.
type TraceabilityRecord struct {
	GTIN            string
	LotCode         string
	ItemName        string
	ItemDescription string
	ItemCode        string
	Quantity        float64
	UnitLabel       string
	PackDate        time.Time
	ExpiryDate      *time.Time
	Vendor          string

	// Custom carries the caller-supplied fields for the Custom profile;
	// nil for the fixed profiles.
	Custom *CustomFields
}

// CustomFields are the free-form overrides for the Custom profile.
type CustomFields struct {
	ProductName  string
	PackDate     *time.Time
	UseByDate    *time.Time
	NetWeight    string
	GrossWeight  string
	Ingredients  string
	Manufacturer string
}

func (r TraceabilityRecord) quantityText() string {
	qty := strconv.FormatFloat(r.Quantity, 'f', -1, 64)
	if r.UnitLabel == "" {
		return qty
	}
	return qty + " " + r.UnitLabel
}

// Profile selects which label layout to render.
type Profile int

const (
	ProfileStandard Profile = iota
	ProfilePTIFSMA
	ProfilePTIVoicePick
	ProfileCustom
)

func (p Profile) String() string {
	switch p {
	case ProfileStandard:
		return "standard"
	case ProfilePTIFSMA:
		return "pti_fsma"
	case ProfilePTIVoicePick:
		return "pti_voicepick"
	case ProfileCustom:
		return "custom"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// ParseProfile maps the API's profile names onto the enum. An empty string
// selects the standard profile.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return ProfileStandard, nil
	case "pti_fsma", "pti-fsma", "pti":
		return ProfilePTIFSMA, nil
	case "pti_voicepick", "pti-voicepick", "voicepick":
		return ProfilePTIVoicePick, nil
	case "custom":
		return ProfileCustom, nil
	default:
		return ProfileStandard, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
	}
}
