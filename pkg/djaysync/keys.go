package djaysync

// keyLabels maps djay's keySignatureIndex to the label written into the
// Music.app Comment field: Camelot code, key name, Open Key code. The text is
// matched by downstream tools and must not change.
var keyLabels = [24]string{
	0:  "8B - C - 1d",
	1:  "8A - A - 1m",
	2:  "3B - C# - 8d",
	3:  "3A - A# - 8m",
	4:  "10B - D - 3d",
	5:  "10A - B - 3m",
	6:  "5B - Eb / D# - 10d",
	7:  "5A - C - 10m",
	8:  "12B - E - 5d",
	9:  "12A - Dbm - 5m",
	10: "7B - F - 12d",
	11: "7A - D - 12m",
	12: "2B - F# / Gb - 7d",
	13: "2A - Ebm - 7m",
	14: "9B - G - 2d",
	15: "9A - E - 2m",
	16: "4B - Ab / G# - 9d",
	17: "4A - F - 9m",
	18: "11B - A - 4d",
	19: "11A - F# / Gb - 4m",
	20: "6B - Bb / A# - 11d",
	21: "6A - G - 11m",
	22: "1B - B - 6d",
	23: "1A - Abm - 6m",
}

// KeyLabel returns the display label for a key index in [0, 23].
func KeyLabel(idx int) (string, bool) {
	if idx < 0 || idx >= len(keyLabels) {
		return "", false
	}
	return keyLabels[idx], true
}
