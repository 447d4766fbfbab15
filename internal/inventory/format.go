package inventory

import "fmt"

// Display formatters for inventory values.

// FormatUptime renders uptime seconds as "3d 4h 12m".
func FormatUptime(seconds *int64) string {
	if seconds == nil {
		return "Unknown"
	}
	s := *seconds
	days := s / 86400
	hours := (s % 86400) / 3600
	minutes := (s % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatSpeed renders a port speed in bps as a human-readable rate.
func FormatSpeed(bps *int64) string {
	if bps == nil || *bps == 0 {
		return "Unknown"
	}
	v := *bps
	switch {
	case v >= 1_000_000_000_000:
		return fmt.Sprintf("%.0f Tbps", float64(v)/1_000_000_000_000)
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.0f Gbps", float64(v)/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.0f Mbps", float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0f Kbps", float64(v)/1_000)
	default:
		return fmt.Sprintf("%d bps", v)
	}
}

// FormatBytes renders a byte count with a binary-scaled unit.
func FormatBytes(b *float64) string {
	if b == nil {
		return "N/A"
	}
	v := *b
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if v < 1024 && v > -1024 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2f PB", v)
}

// FormatSensorValue renders a sensor reading with its class-appropriate unit.
func FormatSensorValue(value *float64, class string, unit *string) string {
	if value == nil {
		return "N/A"
	}
	v := *value
	switch class {
	case "temperature":
		return fmt.Sprintf("%.1f°C", v)
	case "humidity":
		return fmt.Sprintf("%.1f%%", v)
	case "voltage":
		return fmt.Sprintf("%.2fV", v)
	case "current":
		return fmt.Sprintf("%.2fA", v)
	case "power":
		return fmt.Sprintf("%.1fW", v)
	case "frequency":
		switch {
		case v >= 1_000_000_000:
			return fmt.Sprintf("%.2f GHz", v/1_000_000_000)
		case v >= 1_000_000:
			return fmt.Sprintf("%.2f MHz", v/1_000_000)
		case v >= 1_000:
			return fmt.Sprintf("%.2f KHz", v/1_000)
		default:
			return fmt.Sprintf("%.2f Hz", v)
		}
	case "fanspeed":
		return fmt.Sprintf("%.0f RPM", v)
	}
	if unit != nil && *unit != "" {
		return fmt.Sprintf("%.2f %s", v, *unit)
	}
	return fmt.Sprintf("%.2f", v)
}
