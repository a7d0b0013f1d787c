package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconSearch   = "🔍"
	IconFolder   = "📁"
	IconCopy     = "📋"
	IconKey      = "🔑"
	IconCheck    = "✓"
)

// Layout sizing
const (
	TileBorderWidth float32 = 3
	TilePadding     float32 = 4

	LogPanelHeight float32 = 120
	LogMaxLines            = 500

	DialogWidth  float32 = 500
	DialogHeight float32 = 400
)
