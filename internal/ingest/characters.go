package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
)

// characterPattern matches lines such as
// "1. gern (Zealot) - Level 30 (True: 169, Prestige: 4)" and "2. Zek (broker) - Level 30".
var characterPattern = regexp.MustCompile(`^\d+\.\s*(.+?)\s*\(([^)]+)\)\s*-\s*Level\s*(\d+)(?:\s*\(True:\s*(\d+),\s*Prestige:\s*(\d+)\))?`)

// UnknownClass is assigned to character lines that do not match the expected layout.
const UnknownClass = "Unknown"

// ParseCharacter parses one entry of the "All Characters" list. A line that
// does not match yields a summary with class Unknown and the raw line as name.
func ParseCharacter(line string) model.CharacterSummary {
	line = strings.TrimSpace(line)
	m := characterPattern.FindStringSubmatch(line)
	if m == nil {
		return model.CharacterSummary{
			Name:  line,
			Class: UnknownClass,
			Raw:   line,
		}
	}

	level, err := strconv.Atoi(m[3])
	if err != nil {
		return model.CharacterSummary{Name: line, Class: UnknownClass, Raw: line}
	}

	summary := model.CharacterSummary{
		Name:  m[1],
		Class: taxonomy.DisplayClassName(m[2]),
		Level: level,
		Raw:   line,
	}

	if m[4] != "" && m[5] != "" {
		trueLevel, errTrue := strconv.Atoi(m[4])
		prestige, errPrestige := strconv.Atoi(m[5])
		if errTrue == nil && errPrestige == nil {
			summary.TrueLevel = &trueLevel
			summary.Prestige = &prestige
		}
	}

	return summary
}
