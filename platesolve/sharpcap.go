// Package platesolve extracts plate solutions from the text SharpCap puts on
// the clipboard after a successful solve.
//
// The layout is owned by SharpCap. The field rules below follow its output
// exactly and anything that deviates is rejected as a whole:
//
//	line 1: RA=<ra>, Dec=<dec> (<epoch>)
//	line 2: ignored
//	line 3: <text>, <dd Mon yyyy hh:mm:ss> GMT[, <text>]
//	line 4: <text> is <rotation> <text>
package platesolve

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signalsfoundry/prepoint/angle"
	"github.com/signalsfoundry/prepoint/model"
)

// ErrFormat is returned for any text that is not a complete SharpCap block.
var ErrFormat = errors.New("not a SharpCap plate solution")

// timestampLayout matches SharpCap's "%d %b %Y %H:%M:%S".
const timestampLayout = "2 Jan 2006 15:04:05"

// Extract holds the raw fields of a SharpCap block. Only SolvedAt has been
// interpreted; the angle texts are checked by Solution.
type Extract struct {
	SolvedAt     time.Time
	RAText       string
	DecText      string
	RotationText string
}

// Parse pulls the four fields out of a SharpCap clipboard block.
func Parse(text string) (Extract, error) {
	lines := nonBlankLines(text)
	if len(lines) != 4 {
		return Extract{}, fmt.Errorf("%w: want 4 non-blank lines, got %d", ErrFormat, len(lines))
	}

	ra, dec, err := radec(lines[0])
	if err != nil {
		return Extract{}, err
	}
	at, err := solvedAt(lines[2])
	if err != nil {
		return Extract{}, err
	}
	rot, err := rotation(lines[3])
	if err != nil {
		return Extract{}, err
	}
	return Extract{SolvedAt: at, RAText: ra, DecText: dec, RotationText: rot}, nil
}

// Solution converts the extracted texts into a PlateSolution. Either every
// field converts or none is used.
func (e Extract) Solution() (model.PlateSolution, error) {
	ra, err := angle.Parse(e.RAText, angle.RightAscension)
	if err != nil {
		return model.PlateSolution{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	dec, err := angle.Parse(e.DecText, angle.Declination)
	if err != nil {
		return model.PlateSolution{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	rot, err := angle.ParseNumber(e.RotationText)
	if err != nil {
		return model.PlateSolution{}, fmt.Errorf("%w: rotation %q", ErrFormat, e.RotationText)
	}
	return model.PlateSolution{
		RADeg:       ra,
		DecDeg:      dec,
		ImageAt:     e.SolvedAt,
		RotationDeg: rot,
		HasRotation: true,
		Source:      model.PlateSourceSharpCap,
	}, nil
}

func nonBlankLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// radec reads RA between the first and second "=" up to the first comma,
// and Dec after the second "=" up to the first "(".
func radec(line string) (string, string, error) {
	parts := strings.Split(line, "=")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: line 1 lacks RA= and Dec=", ErrFormat)
	}
	comma := strings.Index(parts[1], ",")
	if comma < 0 {
		return "", "", fmt.Errorf("%w: line 1 lacks a comma after RA", ErrFormat)
	}
	paren := strings.Index(parts[2], "(")
	if paren < 0 {
		return "", "", fmt.Errorf("%w: line 1 lacks \"(\" after Dec", ErrFormat)
	}
	ra := strings.TrimSpace(parts[1][:comma])
	dec := strings.TrimSpace(parts[2][:paren])
	if ra == "" || dec == "" {
		return "", "", fmt.Errorf("%w: empty RA or Dec", ErrFormat)
	}
	return ra, dec, nil
}

func solvedAt(line string) (time.Time, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("%w: line 3 has no timestamp field", ErrFormat)
	}
	gmt := strings.Index(fields[1], "GMT")
	if gmt < 0 {
		return time.Time{}, fmt.Errorf("%w: line 3 timestamp is not GMT", ErrFormat)
	}
	at, err := time.Parse(timestampLayout, strings.TrimSpace(fields[1][:gmt]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: line 3 timestamp: %v", ErrFormat, err)
	}
	return at.UTC(), nil
}

// rotation returns the first token after the first literal "is" on the
// line, wherever that "is" falls.
func rotation(line string) (string, error) {
	i := strings.Index(line, "is")
	if i < 0 {
		return "", fmt.Errorf("%w: line 4 lacks \"is\"", ErrFormat)
	}
	tokens := strings.Fields(line[i+len("is"):])
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: line 4 has no rotation after \"is\"", ErrFormat)
	}
	return tokens[0], nil
}
