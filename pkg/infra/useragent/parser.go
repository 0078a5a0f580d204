package useragent

import (
	"fmt"
	"strings"

	"github.com/avct/uasurfer"
)

const unknown = "Unknown"

type Info struct {
	Device  string
	OS      string
	Browser string
	Locale  string
}

// Parse never returns nil; fields it cannot determine are "Unknown".
func Parse(uaString, acceptLanguage string) Info {
	info := Info{
		Device:  unknown,
		OS:      unknown,
		Browser: unknown,
		Locale:  locale(acceptLanguage),
	}
	if strings.TrimSpace(uaString) == "" {
		return info
	}

	ua := uasurfer.Parse(uaString)

	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		info.Device = "Computer"
	case uasurfer.DeviceTablet:
		info.Device = "Tablet"
	case uasurfer.DevicePhone:
		info.Device = "Phone"
	case uasurfer.DeviceConsole:
		info.Device = "Console"
	case uasurfer.DeviceWearable:
		info.Device = "Wearable"
	case uasurfer.DeviceTV:
		info.Device = "TV"
	}

	if ua.OS.Name != uasurfer.OSUnknown {
		info.OS = fmt.Sprintf("%s %d.%d", ua.OS.Name.StringTrimPrefix(), ua.OS.Version.Major, ua.OS.Version.Minor)
	}
	if ua.Browser.Name != uasurfer.BrowserUnknown {
		info.Browser = fmt.Sprintf("%s %d.%d", ua.Browser.Name.StringTrimPrefix(), ua.Browser.Version.Major, ua.Browser.Version.Minor)
	}
	return info
}

// IsKnownBot reports whether uasurfer itself recognises the agent as a bot.
func IsKnownBot(uaString string) bool {
	return uasurfer.Parse(uaString).IsBot()
}

func locale(acceptLanguage string) string {
	first, _, _ := strings.Cut(acceptLanguage, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}
