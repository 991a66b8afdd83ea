package pulse

import (
	"fmt"
	"strconv"
	"strings"
)

// Parsers for the line-oriented output of pactl. These scrape the human
// readable listings; pactl has no machine-readable mode on older releases.

// parseDefaultSink extracts the default sink name from `pactl info`
func parseDefaultSink(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Default Sink") {
			parts := strings.SplitN(line, ": ", 2)
			if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
				return strings.TrimSpace(parts[1]), nil
			}
		}
	}
	return "", fmt.Errorf("failed to get default sink from pactl info")
}

// parseSinkVolume extracts the front-left volume percentage for the named
// sink from `pactl list sinks`. Only a handful of lines after the Name
// line are considered, so other sinks' volumes are never picked up.
func parseSinkVolume(out, sink string) (int, error) {
	lines := strings.Split(out, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, "Name: "+sink) {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, fmt.Errorf("sink %q not found in pactl output", sink)
	}

	end := start + 15
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[start:end] {
		if !strings.Contains(line, "Volume: front-left") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 4 {
			vol, err := strconv.Atoi(strings.TrimSuffix(fields[4], "%"))
			if err == nil {
				return vol, nil
			}
		}
	}

	return 0, fmt.Errorf("failed to get current volume for sink %q", sink)
}

// parseSinkInputIDs extracts stream IDs from `pactl list short sink-inputs`
func parseSinkInputIDs(out string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			ids = append(ids, fields[0])
		}
	}
	return ids
}

// filterUnmuted returns the IDs whose "Mute:" line in the detailed
// `pactl list sink-inputs` output says no. A stream whose mute state
// cannot be determined is treated as muted and left alone.
func filterUnmuted(detailOut string, ids []string) []string {
	lines := strings.Split(detailOut, "\n")

	var unmuted []string
	for _, id := range ids {
		header := fmt.Sprintf("Sink Input #%s", id)

		start := -1
		for i, line := range lines {
			if strings.Contains(line, header) {
				start = i
				break
			}
		}
		if start == -1 {
			continue
		}

		end := start + 15
		if end > len(lines) {
			end = len(lines)
		}
		for _, line := range lines[start:end] {
			if strings.Contains(line, "Mute:") {
				if !strings.Contains(line, "yes") {
					unmuted = append(unmuted, id)
				}
				break
			}
		}
	}

	return unmuted
}
