package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
)

// TranscriptAnalyzer is the injected transcript oracle: one call per video,
// trusted at face value. Implementations own pacing and timeouts.
type TranscriptAnalyzer interface {
	AnalyzeTranscript(ctx context.Context, text string) (*model.TranscriptAnalysis, error)
}

// VerdictService runs the optional transcript-based enrichment: truncate the
// transcript, call the oracle, and store its verdict verbatim next to (never
// instead of) the rule-based classification.
type VerdictService struct {
	analyzer   TranscriptAnalyzer
	videoRepo  *repository.VideoRepo
	resultRepo *repository.ResultRepo
	maxChars   int
}

func NewVerdictService(analyzer TranscriptAnalyzer, videoRepo *repository.VideoRepo, resultRepo *repository.ResultRepo, maxChars int) *VerdictService {
	return &VerdictService{
		analyzer:   analyzer,
		videoRepo:  videoRepo,
		resultRepo: resultRepo,
		maxChars:   maxChars,
	}
}

// Enabled reports whether an oracle is configured.
func (s *VerdictService) Enabled() bool {
	return s.analyzer != nil
}

// Analyze runs the oracle for one video and persists the verdict plus the
// merged tag union. Atomic per video: an oracle failure leaves no partial
// verdict and is returned as a per-video error.
func (s *VerdictService) Analyze(ctx context.Context, videoID, transcript string) (*model.AIVerdict, error) {
	video, err := s.videoRepo.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	text := TruncateTranscript(transcript, s.maxChars)
	analysis, err := s.analyzer.AnalyzeTranscript(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("transcript analysis for %s: %w", videoID, err)
	}
	if !analysis.RiskLevel.Valid() {
		return nil, fmt.Errorf("transcript analysis for %s: oracle returned invalid risk level %q", videoID, analysis.RiskLevel)
	}

	verdict := &model.AIVerdict{
		VideoID:         videoID,
		RiskLevel:       analysis.RiskLevel,
		Summary:         analysis.Summary,
		Reasoning:       analysis.Reasoning,
		ContentFlags:    analysis.ContentFlags,
		FlaggedSeverity: analysis.FlaggedSeverity,
		MergedTags:      MergeTags(video.Tags, analysis.Tags),
		AnalyzedAt:      time.Now().UTC(),
	}

	if err := s.resultRepo.SaveVerdict(ctx, verdict); err != nil {
		return nil, fmt.Errorf("persist verdict for %s: %w", videoID, err)
	}
	return verdict, nil
}

// TruncateTranscript caps the transcript at maxChars bytes without ever
// splitting a UTF-8 rune.
func TruncateTranscript(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// MergeTags unions the video's native tags with the oracle's derived tags,
// de-duplicating case-insensitively. Output is lowercased, native tags first,
// first-encountered order preserved.
func MergeTags(native, derived []string) []string {
	seen := make(map[string]struct{}, len(native)+len(derived))
	merged := make([]string, 0, len(native)+len(derived))
	for _, tag := range append(append([]string{}, native...), derived...) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return merged
}
