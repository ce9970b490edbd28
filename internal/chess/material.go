package chess

// Material sums StandardPieceValues per side.
func Material(b *Board) MaterialCount {
	var mc MaterialCount
	for _, p := range b.cells {
		if p.IsEmpty() {
			continue
		}
		if p.Side == Light {
			mc.Light += StandardPieceValues[p.Kind]
		} else {
			mc.Dark += StandardPieceValues[p.Kind]
		}
	}
	return mc
}
