// Package taxonomy maps raw penance identifiers onto operative classes and
// thematic categories. Every aggregation path reads the tables in this file.
package taxonomy

// Operative class labels.
const (
	ClassVeteran    = "Veteran"
	ClassZealot     = "Zealot"
	ClassPsyker     = "Psyker"
	ClassOgryn      = "Ogryn"
	ClassArbitrator = "Arbitrator"
	ClassHiveScum   = "Hive Scum"
)

// Category labels.
const (
	CategoryAccount         = "Account"
	CategoryClass           = "Class"
	CategoryTactical        = "Tactical"
	CategoryHeretical       = "Heretical"
	CategoryMissionsGeneral = "Missions - General"
	CategoryMissionsHavoc   = "Missions - Havoc"
	CategoryExploration     = "Exploration"
	CategoryEndeavours      = "Endeavours"
	CategoryWeapons         = "Weapons"
)

// ClassRule maps a lowercase identifier substring to a class label.
type ClassRule struct {
	Substring string
	Label     string
}

// classRules is evaluated in order; the first rule whose substring occurs in
// the identifier wins. An id containing both "ogryn" and "broker" is an Ogryn.
var classRules = []ClassRule{
	{Substring: "veteran", Label: ClassVeteran},
	{Substring: "zealot", Label: ClassZealot},
	{Substring: "zelot", Label: ClassZealot},
	{Substring: "psyker", Label: ClassPsyker},
	{Substring: "ogryn", Label: ClassOgryn},
	{Substring: "adamant", Label: ClassArbitrator},
	{Substring: "broker", Label: ClassHiveScum},
}

// categoryKeys maps the export's raw Category values to labels.
var categoryKeys = map[string]string{
	"loc_achievement_category_account_label":              CategoryAccount,
	"loc_class_abilities_title":                           CategoryClass,
	"loc_class_progression_title":                         CategoryClass,
	"loc_achievement_category_offensive_label":            CategoryTactical,
	"loc_achievement_category_defensive_label":            CategoryTactical,
	"loc_achievement_category_teamplay_label":             CategoryTactical,
	"loc_achievement_category_heretics_label":             CategoryHeretical,
	"loc_achievement_subcategory_missions_general_label":  CategoryMissionsGeneral,
	"loc_achievement_subcategory_missions_auric_label":    CategoryMissionsGeneral,
	"loc_achievement_subcategory_missions_havoc_label":    CategoryMissionsHavoc,
	"loc_achievement_subcategory_missions_survival_label": CategoryMissionsGeneral,
	"loc_achievement_subcategory_twins_mission_label":     CategoryExploration,
	"loc_weapon_progression_mastery":                      CategoryWeapons,
	"loc_achievement_category_weapons_label":              CategoryWeapons,
}

// explorationTerms classify ids whose raw category is not in categoryKeys.
var explorationTerms = []string{
	"group_mission_zone_wide",
	"collectible",
	"destructible",
	"mission_zone_",
	"mission_scavenge_samples",
	"mission_propaganda_fan_kills",
	"mission_raid_bottles",
}

var categoryOrder = []string{
	CategoryAccount,
	CategoryClass,
	CategoryTactical,
	CategoryHeretical,
	CategoryMissionsGeneral,
	CategoryMissionsHavoc,
	CategoryExploration,
	CategoryEndeavours,
	CategoryWeapons,
}

var classOrder = []string{
	ClassArbitrator,
	ClassHiveScum,
	ClassOgryn,
	ClassPsyker,
	ClassVeteran,
	ClassZealot,
}

// Categories returns every category label in display order.
func Categories() []string {
	return append([]string(nil), categoryOrder...)
}

// Classes returns the operative class labels in display order, without any default.
func Classes() []string {
	return append([]string(nil), classOrder...)
}

// ClassRules returns a copy of the ordered class table.
func ClassRules() []ClassRule {
	return append([]ClassRule(nil), classRules...)
}

// ExplorationTerms returns a copy of the exploration keyword set.
func ExplorationTerms() []string {
	return append([]string(nil), explorationTerms...)
}

// IsCategory reports whether label is one of the fixed category labels.
func IsCategory(label string) bool {
	for _, c := range categoryOrder {
		if c == label {
			return true
		}
	}
	return false
}
