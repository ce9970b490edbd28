package chess

import (
	"fmt"
	"sort"
)

type Preset string

const (
	PresetStandard  Preset = "standard"
	PresetEndgame   Preset = "endgame"
	PresetPromotion Preset = "promotion"
	PresetCastling  Preset = "castling"
)

var presetFENs = map[Preset]string{
	PresetStandard:  StartFEN,
	PresetEndgame:   "4k3/8/8/8/8/8/8/3QK3 w - - 0 1",
	PresetPromotion: "4k3/PP4PP/8/8/8/8/pp4pp/4K3 w - - 0 1",
	PresetCastling:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
}

// Presets lists the known preset names, sorted.
func Presets() []Preset {
	out := make([]Preset, 0, len(presetFENs))
	for p := range presetFENs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ParsePreset(s string) (Preset, error) {
	if s == "" {
		return PresetStandard, nil
	}
	p := Preset(s)
	if _, ok := presetFENs[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
	return p, nil
}

// PresetBoard builds the starting board of p.
func PresetBoard(p Preset) (*Board, Side, error) {
	fen, ok := presetFENs[p]
	if !ok {
		return nil, Light, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
	return DecodeFEN(fen)
}
