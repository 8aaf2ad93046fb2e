package model

// CutterSettings holds the cutting table configuration used for program output.
type CutterSettings struct {
	Profile    string  `json:"profile"`     // Name of the GCode profile to use
	FeedRate   float64 `json:"feed_rate"`   // Knife feed rate mm/min
	PlungeRate float64 `json:"plunge_rate"` // Knife lowering rate mm/min
	SafeZ      float64 `json:"safe_z"`      // Knife lifted height mm
	CutZ       float64 `json:"cut_z"`       // Knife depth through the material mm (negative)
	Overcut    float64 `json:"overcut"`     // Extra travel past the roll edge on cross cuts mm
}

func DefaultCutterSettings() CutterSettings {
	return CutterSettings{
		Profile:    "Generic",
		FeedRate:   6000,
		PlungeRate: 1200,
		SafeZ:      5,
		CutZ:       -1.5,
		Overcut:    0,
	}
}

// GCodeProfile defines a post-processor configuration for different controllers.
type GCodeProfile struct {
	Name        string `json:"name"`        // Profile name
	Description string `json:"description"` // Profile description
	Units       string `json:"units"`       // "mm" or "inches"

	// Startup codes
	StartCode []string `json:"start_code"` // Commands at start of file
	ToolDown  string   `json:"tool_down"`  // Extra command after the knife is lowered (e.g. "M3"), optional
	ToolUp    string   `json:"tool_up"`    // Extra command after the knife is raised (e.g. "M5"), optional

	// Motion settings
	AbsoluteMode string `json:"absolute_mode"` // G90 or equivalent
	RapidMove    string `json:"rapid_move"`    // G0 or equivalent
	FeedMove     string `json:"feed_move"`     // G1 or equivalent

	// End codes
	EndCode []string `json:"end_code"` // Commands at end of file

	// Comment style
	CommentPrefix string `json:"comment_prefix"` // Comment start (e.g., ";")
	CommentSuffix string `json:"comment_suffix"` // Comment end (if needed, e.g., ")" for Fanuc)

	// Number formatting
	DecimalPlaces int `json:"decimal_places"` // Number of decimal places for coordinates
}

// Built-in GCode profiles
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl based knife or drag-cutter tables",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17"},
		ToolDown:      "M3",
		ToolUp:        "M5",
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC (formerly EMC2)",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1] // Return Generic (last one)
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range GCodeProfiles {
		names = append(names, p.Name)
	}
	return names
}
