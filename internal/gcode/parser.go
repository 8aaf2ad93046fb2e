package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: positioning, knife up
	MoveFeed                    // G1 in the XY plane: cutting
	MovePlunge                  // G1 with Z decreasing: knife into material
	MoveRetract                 // Z increasing: knife out of material
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	default:
		return "retract"
	}
}

// Move represents a single parsed movement.
type Move struct {
	Line     int // 1-based source line
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// ParseGCode parses a program into moves, tracking absolute position and
// classifying each G0/G1 command. Other commands are ignored.
func ParseGCode(code string) []Move {
	var moves []Move
	curX, curY, curZ, curFeed := 0.0, 0.0, 0.0, 0.0

	for n, line := range strings.Split(code, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		word := strings.Fields(upper)[0]
		var rapid bool
		switch word {
		case "G0", "G00":
			rapid = true
		case "G1", "G01":
		default:
			continue
		}

		x, y, z, f := curX, curY, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				x = v
			case "Y":
				y = v
			case "Z":
				z = v
			case "F":
				f = v
			}
		}

		moves = append(moves, Move{
			Line:     n + 1,
			Type:     classifyMove(rapid, curZ, z, curX != x || curY != y),
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      x,
			ToY:      y,
			ToZ:      z,
			FeedRate: f,
		})
		curX, curY, curZ, curFeed = x, y, z, f
	}
	return moves
}

// stripComment removes ";" and parenthesised comments and trims the line.
func stripComment(line string) string {
	if i := strings.Index(line, ";"); i >= 0 {
		line = line[:i]
	}
	for {
		i := strings.Index(line, "(")
		if i < 0 {
			break
		}
		j := strings.Index(line[i:], ")")
		if j < 0 {
			line = line[:i]
			break
		}
		line = line[:i] + line[i+j+1:]
	}
	return strings.TrimSpace(line)
}

func classifyMove(rapid bool, fromZ, toZ float64, hasXY bool) MoveType {
	dz := toZ - fromZ
	switch {
	case dz > 0.001 && !hasXY:
		return MoveRetract
	case rapid && dz > 0:
		return MoveRetract
	case rapid:
		return MoveRapid
	case dz < -0.001 && !hasXY:
		return MovePlunge
	default:
		return MoveFeed
	}
}
