// Package geo resolves municipality geocodes to metropolitan areas.
//
// The metro mapping table keys municipalities by a 5-character geocode:
// 2-digit zero-padded entity code followed by a 3-digit zero-padded
// municipality code. Every join through the normalizer is a strict left
// join: callers always get one output per input, with missing metro
// attributes for unmatched codes.
package geo

import (
	"strings"

	"github.com/urbanecon/mexmetro/internal/model"
)

// Metro is the resolved metropolitan-area attribution for one geocode.
type Metro struct {
	CodeZM int
	ZM     string
}

// Normalizer maps geocodes to metro areas and applies display-name
// overrides keyed by metro code.
type Normalizer struct {
	byGeocode map[string]Metro
	byCode    map[int]string
	overrides map[int]string
}

// NewNormalizer builds a normalizer from mapping rows. overrides replaces
// the mapped ZM name for the given codeZM values after every lookup; it may
// be nil.
func NewNormalizer(rows []model.MetroMapping, overrides map[int]string) *Normalizer {
	n := &Normalizer{
		byGeocode: make(map[string]Metro, len(rows)),
		byCode:    make(map[int]string),
		overrides: overrides,
	}
	for _, r := range rows {
		code := NormalizeGeocode(r.Geocode)
		n.byGeocode[code] = Metro{CodeZM: r.CodeZM, ZM: r.ZM}
		n.byCode[r.CodeZM] = r.ZM
	}
	return n
}

// zeroPad left-pads a code with zeros to width n.
func zeroPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// NormalizeGeocode left-pads a geocode to the canonical 5 characters.
func NormalizeGeocode(code string) string {
	return zeroPad(strings.TrimSpace(code), 5)
}

// Geocode builds the canonical 5-character code from separate entity and
// municipality fields.
func Geocode(entidad, municipio string) string {
	return zeroPad(strings.TrimSpace(entidad), 2) + zeroPad(strings.TrimSpace(municipio), 3)
}

// PriorGeocode builds the geocode for the residence-five-years-ago fields.
// The raw survey fields are wider fixed-width columns; the entity code is
// the last 2 characters and the municipality code the last 3.
func PriorGeocode(resEnt, resMun string) string {
	e := strings.TrimSpace(resEnt)
	m := strings.TrimSpace(resMun)
	if len(e) > 2 {
		e = e[len(e)-2:]
	}
	if len(m) > 3 {
		m = m[len(m)-3:]
	}
	return zeroPad(e, 2) + zeroPad(m, 3)
}

// Resolve looks up the metro attribution for a geocode. The returned name
// already carries any configured override.
func (n *Normalizer) Resolve(geocode string) (Metro, bool) {
	m, ok := n.byGeocode[NormalizeGeocode(geocode)]
	if !ok {
		return Metro{}, false
	}
	m.ZM = n.DisplayName(m.CodeZM, m.ZM)
	return m, true
}

// NameByCode returns the display name for a metro code, override applied.
func (n *Normalizer) NameByCode(codeZM int) (string, bool) {
	name, ok := n.byCode[codeZM]
	if !ok {
		return "", false
	}
	return n.DisplayName(codeZM, name), true
}

// DisplayName applies the configured name override for codeZM, falling back
// to the mapped name.
func (n *Normalizer) DisplayName(codeZM int, mapped string) string {
	if o, ok := n.overrides[codeZM]; ok {
		return o
	}
	return mapped
}

// Joined is one row of a strict left join of geocoded records against the
// mapping. Matched reports whether the geocode resolved.
type Joined struct {
	Geocode string
	Metro   Metro
	Matched bool
}

// Join resolves each geocode, preserving input order and count. Unmatched
// rows keep a zero Metro with Matched false.
func (n *Normalizer) Join(geocodes []string) []Joined {
	out := make([]Joined, len(geocodes))
	for i, g := range geocodes {
		m, ok := n.Resolve(g)
		out[i] = Joined{Geocode: NormalizeGeocode(g), Metro: m, Matched: ok}
	}
	return out
}
