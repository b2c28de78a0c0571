package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// List colors
	RowText       tcell.Color
	RowSelected   tcell.Color
	RowCursor     tcell.Color
	RowInserted   tcell.Color
	RowReloaded   tcell.Color
	HeaderTitle   tcell.Color
	FooterText    tcell.Color
	SectionSpacer tcell.Color
	Background    tcell.Color

	// Filter bar colors
	FilterLabel tcell.Color
	FilterText  tcell.Color

	// Plan view colors
	PlanHeader  tcell.Color
	PlanInsert  tcell.Color
	PlanDelete  tcell.Color
	PlanMove    tcell.Color
	PlanReplace tcell.Color

	// Help overlay colors
	HelpBackground tcell.Color
	HelpBorder     tcell.Color
	HelpTitle      tcell.Color
	HelpContent    tcell.Color

	// Status line colors
	StatusMode    tcell.Color
	StatusMessage tcell.Color
	StatusError   tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			RowText:        tcell.ColorDefault,
			RowSelected:    tcell.ColorDefault,
			RowCursor:      tcell.ColorDefault,
			RowInserted:    tcell.ColorGreen,
			RowReloaded:    tcell.ColorYellow,
			HeaderTitle:    tcell.ColorDefault,
			FooterText:     tcell.ColorDefault,
			SectionSpacer:  tcell.ColorDefault,
			Background:     tcell.ColorDefault,
			FilterLabel:    tcell.ColorDefault,
			FilterText:     tcell.ColorDefault,
			PlanHeader:     tcell.ColorDefault,
			PlanInsert:     tcell.ColorGreen,
			PlanDelete:     tcell.ColorRed,
			PlanMove:       tcell.ColorYellow,
			PlanReplace:    tcell.ColorBlue,
			HelpBackground: tcell.ColorDefault,
			HelpBorder:     tcell.ColorDefault,
			HelpTitle:      tcell.ColorDefault,
			HelpContent:    tcell.ColorDefault,
			StatusMode:     tcell.ColorDefault,
			StatusMessage:  tcell.ColorDefault,
			StatusError:    tcell.ColorRed,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			RowText:        HexToColor("#c0caf5"), // Light gray-blue
			RowSelected:    HexToColor("#e0af68"), // Yellow
			RowCursor:      HexToColor("#7aa2f7"), // Blue
			RowInserted:    HexToColor("#9ece6a"), // Green
			RowReloaded:    HexToColor("#ff9e64"), // Orange
			HeaderTitle:    HexToColor("#bb9af7"), // Magenta
			FooterText:     HexToColor("#565f89"), // Comment gray
			SectionSpacer:  HexToColor("#292e42"),
			Background:     HexToColor("#1a1b26"), // Dark background
			FilterLabel:    HexToColor("#bb9af7"),
			FilterText:     HexToColor("#c0caf5"),
			PlanHeader:     HexToColor("#7dcfff"), // Cyan
			PlanInsert:     HexToColor("#9ece6a"),
			PlanDelete:     HexToColor("#f7768e"), // Red
			PlanMove:       HexToColor("#e0af68"),
			PlanReplace:    HexToColor("#7aa2f7"),
			HelpBackground: HexToColor("#1a1b26"),
			HelpBorder:     HexToColor("#7dcfff"),
			HelpTitle:      HexToColor("#bb9af7"),
			HelpContent:    HexToColor("#c0caf5"),
			StatusMode:     HexToColor("#bb9af7"),
			StatusMessage:  HexToColor("#9ece6a"),
			StatusError:    HexToColor("#f7768e"),
		},
	}
}
