package answer

import "strings"

var mobileMarkers = []string{"Mobile", "Android", "iPhone", "iPad"}

// ClassifyDevice derives the submitting device class from a user agent.
func ClassifyDevice(userAgent string) Origin {
	for _, marker := range mobileMarkers {
		if strings.Contains(userAgent, marker) {
			return OriginMobile
		}
	}
	return OriginDesktop
}
