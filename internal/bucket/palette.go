package bucket

// Palette is the fixed cycle of group colors. A group's color depends only on
// its position in the sorted key list, so coloring is stable across renders.
var Palette = []string{
	"#3B82F6", // blue
	"#EF4444", // red
	"#10B981", // green
	"#F59E0B", // amber
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#14B8A6", // teal
	"#F97316", // orange
}

// ColorFor returns the palette entry for a key position.
func ColorFor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// Colors assigns a color to every key by position.
func Colors(keys []string) map[string]string {
	colors := make(map[string]string, len(keys))
	for i, k := range keys {
		colors[k] = ColorFor(i)
	}
	return colors
}
