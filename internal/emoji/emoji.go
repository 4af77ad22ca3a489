package emoji

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":     {"❌", "[ERR]"},
	"warning":   {"⚠️", "[WRN]"},
	"info":      {"ℹ️", "[INF]"},
	"success":   {"✅", "[OK]"},
	"procedure": {"📋", "[PROC]"},
	"summary":   {"📝", "[SUM]"},
	"custom":    {"🛠️", "[CUS]"},
	"pipette":   {"💧", "[PIP]"},
	"tip":       {"🧪", "[TIP]"},
	"aux":       {"🌀", "[AUX]"},
	"module":    {"🌡️", "[MOD]"},
	"axis":      {"🦾", "[AXS]"},
	"deck":      {"🧫", "[DECK]"},
	"commands":  {"📊", "[CMD]"},
	"rocket":    {"🚀", "[RUN]"},
	"watch":     {"👀", "[WATCH]"},
	"help":      {"❓", "[?]"},
	"door":      {"🚪", "[EXIT]"},
	"number":    {"🔢", "[#]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	return Lookup(key, !emojiDisabled)
}

// Lookup returns the emoji for key, or its text fallback when useEmoji is false
func Lookup(key string, useEmoji bool) string {
	mapping, exists := emojiMap[key]
	if !exists {
		return "[?]"
	}
	if useEmoji {
		return mapping[0]
	}
	return mapping[1]
}
