package model

// RiskLevel is the coarse verdict for one video.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Rank orders risk levels for sorting: lower rank is more severe.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	}
	return 3
}

// Valid reports whether the level is one of the three known values.
func (r RiskLevel) Valid() bool {
	return r == RiskHigh || r == RiskMedium || r == RiskLow
}

// SignalTier is the severity bucket a signal belongs to. The risk level is
// derived from tiers alone.
type SignalTier string

const (
	TierFlag    SignalTier = "flag"
	TierWarning SignalTier = "warning"
	TierInfo    SignalTier = "info"
)

// SignalType identifies which check produced a signal.
type SignalType string

const (
	SignalBlocklistTitle    SignalType = "BLOCKLIST_TITLE"
	SignalBlocklistBody     SignalType = "BLOCKLIST_BODY"
	SignalBlocklistChannel  SignalType = "BLOCKLIST_CHANNEL"
	SignalBlocklistCategory SignalType = "BLOCKLIST_CATEGORY"
	SignalContentRating     SignalType = "CONTENT_RATING"
	SignalKidsMismatch      SignalType = "KIDS_MISMATCH"
	SignalNotForKids        SignalType = "NOT_FOR_KIDS"
	SignalChannelRestricted SignalType = "CHANNEL_AGE_RESTRICTED"
	SignalChannelRarelyKids SignalType = "CHANNEL_RARELY_KIDS"
)

// Signal is one triggered classification check. Severity is a display label
// only; risk derivation inspects Tier exclusively. In particular, keyword hits
// in the description or tags carry severity "medium" but remain flag tier.
type Signal struct {
	Type     SignalType `json:"type"`
	Tier     SignalTier `json:"tier"`
	Severity string     `json:"severity"`
	Message  string     `json:"message"`
}

// ClassificationResult is the rule-based verdict for one video. The risk
// level is a pure function of the signal tiers (see DeriveRiskLevel) and each
// run's result overwrites any prior result for the same video.
type ClassificationResult struct {
	VideoID      string    `json:"videoId"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	Signals      []Signal  `json:"signals"`
	FlagCount    int       `json:"flagCount"`
	WarningCount int       `json:"warningCount"`
	InfoCount    int       `json:"infoCount"`
}

// DeriveRiskLevel maps a signal list to a risk level: HIGH with any flag-tier
// signal, MEDIUM with warnings but no flags, LOW otherwise. Total over any
// signal multiset and re-derivable from the signal list alone.
func DeriveRiskLevel(signals []Signal) RiskLevel {
	var flags, warnings int
	for _, s := range signals {
		switch s.Tier {
		case TierFlag:
			flags++
		case TierWarning:
			warnings++
		}
	}
	if flags > 0 {
		return RiskHigh
	}
	if warnings > 0 {
		return RiskMedium
	}
	return RiskLow
}

// Summary holds the per-run counts by risk tier.
type Summary struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// RankedResult is a classification result joined with presentation fields,
// in the canonical report ordering (risk severity, then flag count, then
// original corpus order).
type RankedResult struct {
	ClassificationResult
	Title        string `json:"title,omitempty"`
	ChannelID    string `json:"channelId,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
}

// Report is the API response for GET /api/report.
type Report struct {
	RunID       string         `json:"runId"`
	GeneratedAt string         `json:"generatedAt"`
	Summary     Summary        `json:"summary"`
	Results     []RankedResult `json:"results"`
}

// Export is the flat shape persisted per run and served for JSON export.
type Export struct {
	GeneratedAt      string           `json:"generatedAt"`
	Summary          Summary          `json:"summary"`
	ConcerningVideos []RankedResult   `json:"concerningVideos"`
	TopChannels      []ChannelSummary `json:"topChannels"`
	AllResults       []RankedResult   `json:"allResults"`
}
