package verify

import (
	"context"
	"strings"

	"recruiterrisk/internal/trust/models"
)

// Threat labels reported on unsafe URLs.
const (
	ThreatSocialEngineering = "SOCIAL_ENGINEERING"
	ThreatMalware           = "MALWARE"
)

// HeuristicURLChecker flags URLs containing known scam markers. Default
// implementation and degradation fallback.
type HeuristicURLChecker struct{}

// NewHeuristicURLChecker builds the checker.
func NewHeuristicURLChecker() *HeuristicURLChecker {
	return &HeuristicURLChecker{}
}

// CheckURL scans the URL for scam and malware markers. Safety is binary:
// a clean URL scores 100, a flagged one 0.
func (c *HeuristicURLChecker) CheckURL(_ context.Context, url string) (models.URLSafety, error) {
	lowered := strings.ToLower(url)

	var threats []string
	for _, marker := range []string{"phishing", "scam", "fraud"} {
		if strings.Contains(lowered, marker) {
			threats = append(threats, ThreatSocialEngineering)
			break
		}
	}
	for _, marker := range []string{"malware", "virus"} {
		if strings.Contains(lowered, marker) {
			threats = append(threats, ThreatMalware)
			break
		}
	}

	if len(threats) > 0 {
		return models.URLSafety{Safe: false, Score: 0, Threats: threats}, nil
	}
	return models.URLSafety{Safe: true, Score: 100}, nil
}
