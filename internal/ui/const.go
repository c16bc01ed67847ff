package ui

const (
	NAV_CURSOR_TOP  = 0
	NAV_SCROLL_STEP = 1

	NAV_HEIGHT_MARGIN = 3 // topbar 1 + status 1 + help 1
	NAV_EXPAND_MARGIN = 3 // keep lines above the cursor when a fold moves it far
	NAV_INDENT_WIDTH  = 2
)
