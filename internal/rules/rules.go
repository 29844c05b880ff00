// Package rules holds the user-editable blocklist consumed by the classifier:
// keywords, channel ids, and category ids treated as automatic flags.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ruleFile is the on-disk JSON shape.
type ruleFile struct {
	Keywords   []string `json:"keywords"`
	Channels   []string `json:"channels"`
	Categories []string `json:"categories"`
}

// RuleSet is an immutable blocklist snapshot. Keyword matching is
// case-insensitive substring; channel and category checks are exact-match.
type RuleSet struct {
	keywords   []string // lowercased, original order
	channels   map[string]struct{}
	categories map[string]struct{}
}

// New builds a rule set from raw lists.
func New(keywords, channels, categories []string) *RuleSet {
	rs := &RuleSet{
		channels:   make(map[string]struct{}, len(channels)),
		categories: make(map[string]struct{}, len(categories)),
	}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			rs.keywords = append(rs.keywords, kw)
		}
	}
	for _, ch := range channels {
		if ch = strings.TrimSpace(ch); ch != "" {
			rs.channels[ch] = struct{}{}
		}
	}
	for _, cat := range categories {
		if cat = strings.TrimSpace(cat); cat != "" {
			rs.categories[cat] = struct{}{}
		}
	}
	return rs
}

// Load reads the rule set from a JSON file. A missing file degrades to an
// empty rule set, not an error; a malformed file is an error.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(nil, nil, nil), nil
		}
		return nil, fmt.Errorf("read rule set %s: %w", path, err)
	}

	var rf ruleFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rule set %s: %w", path, err)
	}
	return New(rf.Keywords, rf.Channels, rf.Categories), nil
}

// MatchKeywords returns every blocklist keyword found in text as a
// case-insensitive substring, in blocklist order.
func (r *RuleSet) MatchKeywords(text string) []string {
	if text == "" || len(r.keywords) == 0 {
		return nil
	}
	lower := strings.ToLower(text)
	var hits []string
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// ChannelBlocked reports whether the channel id is on the blocklist.
func (r *RuleSet) ChannelBlocked(channelID string) bool {
	_, ok := r.channels[channelID]
	return ok
}

// CategoryBlocked reports whether the category id is on the blocklist.
func (r *RuleSet) CategoryBlocked(categoryID string) bool {
	_, ok := r.categories[categoryID]
	return ok
}

// Empty reports whether the rule set has no entries at all.
func (r *RuleSet) Empty() bool {
	return len(r.keywords) == 0 && len(r.channels) == 0 && len(r.categories) == 0
}

// Counts returns the rule counts for startup logging.
func (r *RuleSet) Counts() (keywords, channels, categories int) {
	return len(r.keywords), len(r.channels), len(r.categories)
}

// CategoryNames maps YouTube category ids to display names, used in signal
// messages. Static, never mutated at runtime.
var CategoryNames = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"19": "Travel & Events",
	"20": "Gaming",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
}

// CategoryName returns the display name for a category id, falling back to
// the raw id.
func CategoryName(categoryID string) string {
	if name, ok := CategoryNames[categoryID]; ok {
		return name
	}
	return categoryID
}
