package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFrameRate is assumed when a frame-indexed file carries no rate
// declaration of its own.
const DefaultFrameRate = 25.0

// entryRe matches one frame-indexed caption line: {startFrame}{endFrame}text.
var entryRe = regexp.MustCompile(`^\{(\d+)\}\{(\d+)\}(.*)$`)

// styleRe matches inline style directives like {y:i} or {c:$0000ff}.
var styleRe = regexp.MustCompile(`\{[^{}]*\}`)

type frameEntry struct {
	start int
	end   int
	text  string
}

// ConvertFrameIndexed converts legacy frame-indexed caption text to the
// standard timestamped format. Text that contains no frame-indexed lines
// is returned unchanged, which makes the conversion a no-op on already
// converted input.
//
// A degenerate entry whose start and end frames are equal and whose
// payload is a bare number declares the file's frame rate; without one,
// DefaultFrameRate applies. If cleaning leaves no usable entries the
// original text is passed through rather than emitting an empty file.
func ConvertFrameIndexed(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	entries := make([]frameEntry, 0, len(lines))
	for _, line := range lines {
		m := entryRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		entries = append(entries, frameEntry{start: start, end: end, text: m[3]})
	}

	if len(entries) == 0 {
		return text
	}

	frameRate := DefaultFrameRate
	captions := make([]frameEntry, 0, len(entries))
	for _, e := range entries {
		if e.start == e.end {
			if rate, ok := parseFrameRate(e.text); ok {
				frameRate = rate
				continue
			}
		}
		captions = append(captions, e)
	}

	var b strings.Builder
	index := 0
	for _, e := range captions {
		body := cleanCaptionText(e.text)
		if body == "" {
			continue
		}
		index++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			index,
			frameTimestamp(e.start, frameRate),
			frameTimestamp(e.end, frameRate),
			body,
		)
	}

	if index == 0 {
		return text
	}
	return b.String()
}

// parseFrameRate accepts a bare number, with either decimal separator.
func parseFrameRate(payload string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(payload, ",", "."))
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// cleanCaptionText strips style directives, expands the pipe line-break
// marker and drops blank lines.
func cleanCaptionText(payload string) string {
	payload = styleRe.ReplaceAllString(payload, "")

	parts := strings.Split(payload, "|")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n")
}

// frameTimestamp renders a frame index as HH:MM:SS,mmm at the given rate.
func frameTimestamp(frame int, frameRate float64) string {
	totalMillis := int64(math.Round(float64(frame) / frameRate * 1000))

	hours := totalMillis / 3600000
	minutes := (totalMillis % 3600000) / 60000
	seconds := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
