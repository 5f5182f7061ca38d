package config

import "fmt"

// Preset is a selectable daemon interval.
type Preset struct {
	Minutes int
	Label   string
}

var presetMinutes = []int{1, 5, 10, 15, 30, 60, 120, 240, 480}

// AvailableIntervals lists the preset intervals offered by the settings
// surface, shortest first.
func AvailableIntervals() []Preset {
	presets := make([]Preset, len(presetMinutes))
	for i, m := range presetMinutes {
		presets[i] = Preset{Minutes: m, Label: FormatInterval(m)}
	}
	return presets
}

// FormatInterval renders minutes as "1 minute", "45 minutes", "2 hours"
// or "1h30m".
func FormatInterval(minutes int) string {
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return plural(hours, "hour")
	}
	return fmt.Sprintf("%dh%dm", hours, rest)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
