package planner

import "unicode/utf16"

var palette = [...]string{
	"#3B82F6", "#8B5CF6", "#10B981", "#F59E0B", "#EF4444",
	"#6366F1", "#EC4899", "#14B8A6", "#F97316", "#84CC16",
}

// ColorFromString deterministically picks a palette color for s (usually a course name).
func ColorFromString(s string) string {
	var hash int64
	for _, c := range utf16.Encode([]rune(s)) {
		shifted := int64(int32(uint32(int32(hash)) << 5))
		hash = int64(c) + shifted - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return palette[hash%int64(len(palette))]
}
