package common

// capabilitiesPayload builds the capability negotiation body for session
// creation. platformName and browserName are always present; the vendor
// options key is injected only when headless mode is requested, never as an
// empty list.
func capabilitiesPayload(b Browser, p Platform, headless bool) map[string]any {
	alwaysMatch := map[string]any{
		"platformName": string(p),
		"browserName":  b.String(),
	}
	if headless {
		alwaysMatch[b.vendorOptionsKey()] = map[string]any{
			"args": []string{"-headless"},
		}
	}
	return map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": alwaysMatch,
		},
	}
}
