package taxonomy

import (
	"strings"

	"github.com/Veraticus/penance-hunter/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Use selects which unclassified-class label applies.
type Use int

const (
	// UseSummary is for completed/total summary tables.
	UseSummary Use = iota
	// UseLegend is for chart legends and table filters.
	UseLegend
)

// Defaults holds the labels given to ids that match no class rule.
type Defaults struct {
	Summary string `mapstructure:"summary_default"`
	Legend  string `mapstructure:"legend_default"`
}

// DefaultDefaults returns the stock fallback labels.
func DefaultDefaults() Defaults {
	return Defaults{
		Summary: "Unknown",
		Legend:  "General",
	}
}

// Classification is the class and category assigned to one penance.
type Classification struct {
	Class    string
	Category string
}

// Classifier assigns classes and categories. It is safe for concurrent use.
type Classifier struct {
	defaults Defaults
}

// NewClassifier creates a classifier; empty defaults fall back to DefaultDefaults.
func NewClassifier(defaults Defaults) *Classifier {
	stock := DefaultDefaults()
	if strings.TrimSpace(defaults.Summary) == "" {
		defaults.Summary = stock.Summary
	}
	if strings.TrimSpace(defaults.Legend) == "" {
		defaults.Legend = stock.Legend
	}
	return &Classifier{defaults: defaults}
}

// Defaults returns the fallback labels in effect.
func (c *Classifier) Defaults() Defaults {
	return c.defaults
}

// DefaultClass returns the fallback class label for use.
func (c *Classifier) DefaultClass(use Use) string {
	if use == UseLegend {
		return c.defaults.Legend
	}
	return c.defaults.Summary
}

// Class returns the operative class for an achievement id.
func (c *Classifier) Class(achievementID string, use Use) string {
	if label, ok := MatchClass(achievementID); ok {
		return label
	}
	return c.DefaultClass(use)
}

// Category returns the category label for a raw category key and achievement id.
func (c *Classifier) Category(achievementID, rawCategory string) string {
	return CategoryOf(achievementID, rawCategory)
}

// Classify returns both labels for one penance.
func (c *Classifier) Classify(achievementID, rawCategory string, use Use) Classification {
	return Classification{
		Class:    c.Class(achievementID, use),
		Category: CategoryOf(achievementID, rawCategory),
	}
}

// ClassLabels returns every class label a classification with use can produce,
// in display order. The legend default leads; the summary default trails.
func (c *Classifier) ClassLabels(use Use) []string {
	labels := make([]string, 0, len(classOrder)+1)
	if use == UseLegend {
		labels = append(labels, c.defaults.Legend)
		return append(labels, classOrder...)
	}
	labels = append(labels, classOrder...)
	return append(labels, c.defaults.Summary)
}

// Apply returns a copy of records with PenanceClass (legend context) and
// PenanceCategory populated.
func (c *Classifier) Apply(records []model.PenanceRecord) []model.PenanceRecord {
	out := model.Clone(records)
	for i := range out {
		cl := c.Classify(out[i].AchievementID, out[i].Category, UseLegend)
		out[i].PenanceClass = cl.Class
		out[i].PenanceCategory = cl.Category
	}
	return out
}

// MatchClass searches the class table for the first substring contained in
// achievementID, ignoring case.
func MatchClass(achievementID string) (string, bool) {
	id := strings.ToLower(achievementID)
	for _, rule := range classRules {
		if strings.Contains(id, rule.Substring) {
			return rule.Label, true
		}
	}
	return "", false
}

// CategoryOf maps a raw category key to its label, falling back to the
// exploration keywords and finally to Endeavours.
func CategoryOf(achievementID, rawCategory string) string {
	if label, ok := categoryKeys[strings.TrimSpace(rawCategory)]; ok {
		return label
	}
	if isExploration(achievementID) {
		return CategoryExploration
	}
	return CategoryEndeavours
}

func isExploration(achievementID string) bool {
	id := strings.ToLower(achievementID)
	if id == "" {
		return false
	}
	for _, term := range explorationTerms {
		if strings.Contains(id, term) {
			return true
		}
	}
	return false
}

// DisplayClassName maps a class token from the character list (for example
// "adamant" or "Zealot") to its label. The token must equal a class table key
// ignoring case; otherwise it is title-cased.
func DisplayClassName(token string) string {
	token = strings.TrimSpace(token)
	lower := strings.ToLower(token)
	for _, rule := range classRules {
		if rule.Substring == lower {
			return rule.Label
		}
	}
	return cases.Title(language.Und).String(token)
}
