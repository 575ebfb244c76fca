package domain

import "strings"

const (
	DefaultBaseURL      = "https://alexa.amazon.com"
	devicesPath         = "/api/devices-v2/device?cached=false"
	behaviorPreviewPath = "/api/behaviors/preview"
)

// Endpoints полные URL методов Alexa, которые мы вызываем.
type Endpoints struct {
	Devices         string
	BehaviorPreview string
}

// NewEndpoints builds the endpoint set for baseURL; empty means DefaultBaseURL.
func NewEndpoints(baseURL string) Endpoints {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return Endpoints{
		Devices:         base + devicesPath,
		BehaviorPreview: base + behaviorPreviewPath,
	}
}
