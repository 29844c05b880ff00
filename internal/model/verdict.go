package model

import "time"

// Flagged-severity values reported by the transcript oracle.
const (
	FlaggedSevere   = "severe"
	FlaggedModerate = "moderate"
	FlaggedNone     = "none"
)

// TranscriptAnalysis is the structured response of the transcript oracle,
// trusted at face value.
type TranscriptAnalysis struct {
	Summary         string    `json:"summary"`
	Tags            []string  `json:"tags"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Reasoning       string    `json:"reasoning"`
	ContentFlags    []string  `json:"contentFlags,omitempty"`
	FlaggedSeverity string    `json:"flaggedSeverity,omitempty"`
}

// AIVerdict is the stored per-video oracle verdict. Absence means "not
// analyzed", which is distinct from "analyzed and clean". It is reported
// alongside the rule-based ClassificationResult, never merged into it.
type AIVerdict struct {
	VideoID         string    `json:"videoId"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Summary         string    `json:"summary,omitempty"`
	Reasoning       string    `json:"reasoning,omitempty"`
	ContentFlags    []string  `json:"contentFlags,omitempty"`
	FlaggedSeverity string    `json:"flaggedSeverity,omitempty"`
	MergedTags      []string  `json:"mergedTags,omitempty"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
}

// TranscriptRequest is the POST /api/videos/:videoId/analyze body.
type TranscriptRequest struct {
	Transcript string `json:"transcript"`
}
