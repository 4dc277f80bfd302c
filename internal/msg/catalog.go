package msg

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"dupesweep/internal/ranking"
)

// Message keys. The English text doubles as the catalog key, so an
// unregistered language degrades to readable English.
const (
	KeyNoDuplicates   = "No duplicates found. Nothing to delete."
	KeyGroupsFound    = "%d duplicate groups found."
	KeyGroupHeader    = "Duplicate group #%d (%d files), conservation reason: %s"
	KeyKeptLine       = "[KEPT]\tDate: %s\tSize: %sMB\tEXIF fields: %d\t%s --> %s"
	KeyDeletedLine    = "[DELETE]\tDate: %s\tSize: %sMB\tEXIF fields: %d\t%s --> %s"
	KeyTransferLine   = "[TRANSFER]\tAlbums: %d\tTags: %d\tLocation: %s\tDate: %s\t--> %s"
	KeySkippedPairs   = "Duplicate group #%d (%d files) skipped: pairs-only mode, manual review recommended"
	KeyDryRunNotice   = "Simulation mode enabled. No actual deletion performed."
	KeyConfirmPrompt  = "Keep %s and delete %d duplicate(s)? [y/N] "
	KeyDeclined       = "Duplicate group #%d skipped by operator."
	KeyUnknownDate    = "??/??/??"
	KeyRunSummary     = "Processed %d groups (%d skipped), deleted %d assets, %d errors."
	KeyBytesReclaimed = "Reclaimed %sMB of storage."
)

var reasonKeys = map[ranking.Reason]string{
	ranking.ReasonOlder:           "older",
	ranking.ReasonPreferredFormat: "preferred extension",
	ranking.ReasonLargerSize:      "larger size",
	ranking.ReasonRicherMetadata:  "more exif data",
	ranking.ReasonIdentical:       "identical by every criterion (date, format, size, exif)",
}

var french = map[string]string{
	KeyNoDuplicates:   "Aucun doublon trouvé. Rien à supprimer.",
	KeyGroupsFound:    "%d groupes de doublons trouvés.",
	KeyGroupHeader:    "Doublons n°%d (%d fichiers), raison de conservation : %s",
	KeyKeptLine:       "[GARDÉ]\tDate : %s\tTaille : %sMB\tNombre d'exif : %d\t%s --> %s",
	KeyDeletedLine:    "[SUPPRIMÉ]\tDate : %s\tTaille : %sMB\tNombre d'exif : %d\t%s --> %s",
	KeyTransferLine:   "[TRANSFERT]\tAlbums : %d\tTags : %d\tPosition : %s\tDate : %s\t--> %s",
	KeySkippedPairs:   "Doublons n°%d (%d fichiers) ignorés : mode paires uniquement, sélection manuelle recommandée",
	KeyDryRunNotice:   "Mode simulation activé. Aucune suppression réelle effectuée.",
	KeyConfirmPrompt:  "Garder %s et supprimer %d doublon(s) ? [o/N] ",
	KeyDeclined:       "Doublons n°%d ignorés par l'opérateur.",
	KeyUnknownDate:    "??/??/??",
	KeyRunSummary:     "%d groupes traités (%d ignorés), %d assets supprimés, %d erreurs.",
	KeyBytesReclaimed: "%sMB d'espace récupérés.",

	"older":               "plus ancien",
	"preferred extension": "extension préférée",
	"larger size":         "taille plus grande",
	"more exif data":      "exif en plus grand nombre",
	"identical by every criterion (date, format, size, exif)": "fichiers identiques avec les critères (date, format, taille, exif)",
}

var affirmatives = map[language.Tag][]string{
	language.English: {"y", "yes"},
	language.French:  {"o", "oui", "y", "yes"},
}

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

var messages = func() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	keys := []string{
		KeyNoDuplicates, KeyGroupsFound, KeyGroupHeader, KeyKeptLine,
		KeyDeletedLine, KeyTransferLine, KeySkippedPairs, KeyDryRunNotice,
		KeyConfirmPrompt, KeyDeclined, KeyUnknownDate, KeyRunSummary,
		KeyBytesReclaimed,
	}
	for _, key := range keys {
		_ = builder.SetString(language.English, key, key)
	}
	for _, key := range reasonKeys {
		_ = builder.SetString(language.English, key, key)
	}
	for key, text := range french {
		_ = builder.SetString(language.French, key, text)
	}
	return builder
}()

// Catalog resolves operator-facing strings in the configured language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a catalog for the given BCP 47 language string. Unknown
// languages fall back to English.
func New(lang string) *Catalog {
	_, index, _ := matcher.Match(language.Make(lang))
	tag := supported[index]
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Sprintf formats the message identified by key in the catalog language.
func (c *Catalog) Sprintf(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}

// Reason returns the localized conservation reason.
func (c *Catalog) Reason(r ranking.Reason) string {
	key, ok := reasonKeys[r]
	if !ok {
		return string(r)
	}
	return c.printer.Sprintf(key)
}

// IsAffirmative reports whether the operator's answer confirms the prompt.
// Anything else, including an empty answer, declines.
func (c *Catalog) IsAffirmative(answer string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(answer))
	if trimmed == "" {
		return false
	}
	words, ok := affirmatives[c.tag]
	if !ok {
		words = affirmatives[language.English]
	}
	for _, w := range words {
		if trimmed == w {
			return true
		}
	}
	return false
}
