// Package ingest turns raw penance export bytes into model values.
package ingest

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"unicode"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
)

// CommentMarker prefixes every metadata line in the export header.
const CommentMarker = "#"

const charactersSentinel = "All Characters:"

type metadataField int

const (
	fieldAccountID metadataField = iota
	fieldAccountLevel
	fieldAccountTrueLevel
	fieldPrestige
	fieldTimezone
	fieldModVersion
	fieldNumCharacters
)

// metadataKeys lists the recognised "Key: Value" header keys. Older exporter
// versions wrote Export Prestige and Export Timezone.
var metadataKeys = map[string]metadataField{
	"account id":           fieldAccountID,
	"account level":        fieldAccountLevel,
	"account true level":   fieldAccountTrueLevel,
	"prestige":             fieldPrestige,
	"account prestige":     fieldPrestige,
	"export prestige":      fieldPrestige,
	"timezone":             fieldTimezone,
	"export timezone":      fieldTimezone,
	"mod version":          fieldModVersion,
	"number of characters": fieldNumCharacters,
}

// ExtractMetadata scans the leading comment lines of an export. It never
// fails: unknown keys are ignored and unparseable numbers are left absent.
func ExtractMetadata(data []byte) model.AccountMetadata {
	meta := model.AccountMetadata{
		CharacterLines: []string{},
		Characters:     []model.CharacterSummary{},
	}

	scanner := bufio.NewScanner(bytes.NewReader(stripBOM(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inCharacters := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, CommentMarker) {
			break
		}
		text := strings.TrimSpace(strings.TrimLeft(line, CommentMarker))

		if strings.Contains(text, charactersSentinel) {
			inCharacters = true
			continue
		}

		if inCharacters {
			switch {
			case text != "" && unicode.IsDigit(rune(text[0])):
				meta.CharacterLines = append(meta.CharacterLines, text)
				continue
			case text == "" || strings.Contains(text, ":"):
				inCharacters = false
			}
		}

		applyMetadataLine(&meta, text)
	}

	for _, line := range meta.CharacterLines {
		meta.Characters = append(meta.Characters, ParseCharacter(line))
	}

	common.LogDebug("extracted export metadata", common.Fields{
		"account_id": meta.AccountID,
		"characters": len(meta.Characters),
	})

	return meta
}

func applyMetadataLine(meta *model.AccountMetadata, text string) {
	key, value, ok := strings.Cut(text, ":")
	if !ok {
		return
	}
	field, known := metadataKeys[strings.ToLower(strings.TrimSpace(key))]
	if !known {
		return
	}
	value = strings.TrimSpace(value)

	switch field {
	case fieldAccountID:
		meta.AccountID = value
	case fieldTimezone:
		meta.Timezone = value
	case fieldModVersion:
		meta.ModVersion = value
	case fieldAccountLevel:
		meta.AccountLevel = parseMetadataInt(key, value)
	case fieldAccountTrueLevel:
		meta.AccountTrueLevel = parseMetadataInt(key, value)
	case fieldPrestige:
		meta.Prestige = parseMetadataInt(key, value)
	case fieldNumCharacters:
		meta.NumCharacters = parseMetadataInt(key, value)
	}
}

func parseMetadataInt(key, value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		common.LogDebug("ignoring unparseable metadata value", common.Fields{
			"key":   key,
			"value": value,
			"error": common.ErrUnparseableField.Error(),
		})
		return nil
	}
	return &n
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
}
