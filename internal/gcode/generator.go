package gcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/RollCut/internal/model"
)

// Generator produces GCode for a knife cutting table from a packed plan.
// The roll origin (X0 Y0) is the left edge at the start of the plan.
type Generator struct {
	Settings model.CutterSettings
	profile  model.GCodeProfile
}

// New returns a generator using the built-in profile named in settings.
func New(settings model.CutterSettings) *Generator {
	return NewWithProfile(settings, model.GetProfile(settings.Profile))
}

// NewWithProfile returns a generator for an explicit, possibly custom, profile.
func NewWithProfile(settings model.CutterSettings, profile model.GCodeProfile) *Generator {
	return &Generator{Settings: settings, profile: profile}
}

// Generate produces the complete program for a plan.
func (g *Generator) Generate(plan model.Plan) string {
	var b strings.Builder
	cuts := Instructions(plan)

	g.writeHeader(&b, plan, cuts)
	row := 0
	for i, c := range cuts {
		if c.Row != row {
			row = c.Row
			b.WriteString(g.comment(fmt.Sprintf("--- Row %d ---", row)))
		}
		g.writeCut(&b, c, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, plan model.Plan, cuts []Cut) {
	total := 0
	for _, c := range cuts {
		total += c.Length()
	}

	b.WriteString(g.comment(fmt.Sprintf("RollCut program: %s", plan.Name)))
	b.WriteString(g.comment(fmt.Sprintf("Roll: %d mm wide, %d mm used", plan.RollWidth, plan.Metrics.TotalLength)))
	b.WriteString(g.comment(fmt.Sprintf("Rows: %d, Cuts: %d, Cut length: %d mm", len(plan.Result.Rows), len(cuts), total)))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f mm/min, Plunge: %.0f mm/min, Depth: %s mm",
		g.Settings.FeedRate, g.Settings.PlungeRate, g.format(g.Settings.CutZ))))
	b.WriteString(g.comment("Profile: " + g.profile.Name))
	b.WriteString("\n")

	for _, code := range g.profile.StartCode {
		b.WriteString(code + "\n")
	}
	fmt.Fprintf(b, "%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ))
	fmt.Fprintf(b, "%s X%s Y%s\n", g.profile.RapidMove, g.format(0), g.format(0))
	b.WriteString("\n")
}

func (g *Generator) writeCut(b *strings.Builder, c Cut, num int) {
	p := g.profile
	x0, y0, x1, y1 := float64(c.X0), float64(c.Y0), float64(c.X1), float64(c.Y1)
	if c.Kind == CutCross && g.Settings.Overcut > 0 {
		x0 -= g.Settings.Overcut
		x1 += g.Settings.Overcut
	}

	b.WriteString(g.comment(fmt.Sprintf("Cut %d: %s, %s", num, c.Kind, c.Note)))
	fmt.Fprintf(b, "%s X%s Y%s\n", p.RapidMove, g.format(x0), g.format(y0))
	if p.ToolDown != "" {
		b.WriteString(p.ToolDown + "\n")
	}
	fmt.Fprintf(b, "%s Z%s F%s\n", p.FeedMove, g.format(g.Settings.CutZ), g.format(g.Settings.PlungeRate))
	fmt.Fprintf(b, "%s X%s Y%s F%s\n", p.FeedMove, g.format(x1), g.format(y1), g.format(g.Settings.FeedRate))
	fmt.Fprintf(b, "%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ))
	if p.ToolUp != "" {
		b.WriteString(p.ToolUp + "\n")
	}
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range g.profile.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

func (g *Generator) format(v float64) string {
	return strconv.FormatFloat(v, 'f', g.profile.DecimalPlaces, 64)
}
