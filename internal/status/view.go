package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors and styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	sections := []string{
		renderHeader(data),
		renderConfig(data),
		renderAPI(data),
		renderCompletion(data),
		renderCache(data),
	}
	return strings.Join(sections, "\n\n")
}

func renderHeader(data *Data) string {
	out := titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version)
	if data.TraceEnabled {
		out += "\n" + warningStyle.Render("   tracing enabled")
	}
	return out
}

func renderConfig(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📝 Configuration:") + "\n")
	b.WriteString(line("Log level", valueStyle.Render(data.LogLevel)))

	b.WriteString("   " + keyStyle.Render("Layers:") + "\n")
	for i, src := range data.ConfigSources {
		b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, subtleStyle.Render(src)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderAPI(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🌐 restQL API:") + "\n")

	if data.APIBaseURL == "" {
		b.WriteString("   " + warningStyle.Render("✗ Not configured (set api.base_url)"))
		return b.String()
	}

	b.WriteString(line("Base URL", valueStyle.Render(data.APIBaseURL)))
	b.WriteString(line("Timeout", valueStyle.Render(data.APITimeout.String())))
	if data.HasAuthKey {
		b.WriteString(line("Authorization key", successStyle.Render("✓ Set")))
	} else {
		b.WriteString(line("Authorization key", subtleStyle.Render("not set")))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderCompletion(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔄 Completion:") + "\n")
	b.WriteString(line("Keyword match", valueStyle.Render(data.KeywordMatch)))
	b.WriteString(line("Tenant catalog", onOff(data.UseCatalog)))
	return strings.TrimSuffix(b.String(), "\n")
}

func renderCache(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("💾 Cache:") + "\n")

	if !data.CacheEnabled {
		b.WriteString("   " + subtleStyle.Render("Disabled"))
		return b.String()
	}

	b.WriteString(line("Path", subtleStyle.Render(data.CachePath)))
	if data.CacheSize == 0 {
		b.WriteString("   " + subtleStyle.Render("Cache not created yet"))
		return b.String()
	}

	b.WriteString(line("Size", valueStyle.Render(formatBytes(data.CacheSize))))
	ttl := "never expires"
	if data.CacheTTL > 0 {
		ttl = data.CacheTTL.String()
	}
	b.WriteString(line("TTL", valueStyle.Render(ttl)))
	b.WriteString(line("Tenants", valueStyle.Render(fmt.Sprintf("%d", len(data.CacheTenants)))))
	if len(data.CacheTenants) > 0 {
		b.WriteString("      " + subtleStyle.Render(truncateString(strings.Join(data.CacheTenants, ", "), 60)) + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func line(key, value string) string {
	return "   " + keyStyle.Render(key+": ") + value + "\n"
}

func onOff(on bool) string {
	if on {
		return successStyle.Render("✓ enabled")
	}
	return subtleStyle.Render("disabled")
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
