package model

// CharacterSummary describes one operative listed in the export header.
type CharacterSummary struct {
	TrueLevel *int   `json:"true_level,omitempty" yaml:"true_level,omitempty"`
	Prestige  *int   `json:"prestige,omitempty" yaml:"prestige,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Class     string `json:"class" yaml:"class"`
	Raw       string `json:"raw" yaml:"raw"`
	Level     int    `json:"level" yaml:"level"`
}

// HasTrueLevel reports whether the true level and prestige pair was present.
func (c CharacterSummary) HasTrueLevel() bool {
	return c.TrueLevel != nil && c.Prestige != nil
}

// AccountMetadata holds the account details from the export's comment header.
// Empty strings and nil pointers mean the field was absent or unparseable.
type AccountMetadata struct {
	AccountLevel     *int               `json:"account_level,omitempty" yaml:"account_level,omitempty"`
	AccountTrueLevel *int               `json:"account_true_level,omitempty" yaml:"account_true_level,omitempty"`
	Prestige         *int               `json:"prestige,omitempty" yaml:"prestige,omitempty"`
	NumCharacters    *int               `json:"num_characters,omitempty" yaml:"num_characters,omitempty"`
	AccountID        string             `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Timezone         string             `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	ModVersion       string             `json:"mod_version,omitempty" yaml:"mod_version,omitempty"`
	CharacterLines   []string           `json:"character_lines" yaml:"character_lines"`
	Characters       []CharacterSummary `json:"characters" yaml:"characters"`
}
