package msg_test

import (
	"strings"
	"testing"

	"dupesweep/internal/msg"
	"dupesweep/internal/ranking"
)

func TestEnglishIsDefaultAndFallback(t *testing.T) {
	for _, lang := range []string{"en", "de", "garbage", ""} {
		c := msg.New(lang)
		got := c.Sprintf(msg.KeyGroupsFound, 4)
		if got != "4 duplicate groups found." {
			t.Fatalf("lang %q: unexpected message %q", lang, got)
		}
	}
}

func TestFrenchTranslations(t *testing.T) {
	c := msg.New("fr")
	if got := c.Sprintf(msg.KeyNoDuplicates); got != "Aucun doublon trouvé. Rien à supprimer." {
		t.Fatalf("unexpected french message: %q", got)
	}
	if got := c.Sprintf(msg.KeyGroupsFound, 2); got != "2 groupes de doublons trouvés." {
		t.Fatalf("unexpected french message: %q", got)
	}
	if got := c.Reason(ranking.ReasonOlder); got != "plus ancien" {
		t.Fatalf("unexpected reason translation: %q", got)
	}
	header := c.Sprintf(msg.KeyGroupHeader, 1, 2, c.Reason(ranking.ReasonLargerSize))
	if !strings.Contains(header, "taille plus grande") {
		t.Fatalf("expected localized reason in header, got %q", header)
	}
	transfer := c.Sprintf(msg.KeyTransferLine, 1, 0, "-", "-", "a.jpg")
	if !strings.HasPrefix(transfer, "[TRANSFERT]") {
		t.Fatalf("expected localized transfer line, got %q", transfer)
	}
}

func TestReasonCoversAllRules(t *testing.T) {
	c := msg.New("en")
	reasons := []ranking.Reason{
		ranking.ReasonOlder,
		ranking.ReasonPreferredFormat,
		ranking.ReasonLargerSize,
		ranking.ReasonRicherMetadata,
		ranking.ReasonIdentical,
	}
	for _, r := range reasons {
		if got := c.Reason(r); got == "" || got == string(r) {
			t.Fatalf("reason %q not localized: %q", r, got)
		}
	}
}

func TestIsAffirmative(t *testing.T) {
	en := msg.New("en")
	for _, answer := range []string{"y", "Y", "yes", " YES "} {
		if !en.IsAffirmative(answer) {
			t.Fatalf("expected %q to affirm in english", answer)
		}
	}
	for _, answer := range []string{"", "n", "no", "oui"} {
		if en.IsAffirmative(answer) {
			t.Fatalf("expected %q to decline in english", answer)
		}
	}

	fr := msg.New("fr")
	for _, answer := range []string{"o", "oui", "y"} {
		if !fr.IsAffirmative(answer) {
			t.Fatalf("expected %q to affirm in french", answer)
		}
	}
	if fr.IsAffirmative("non") {
		t.Fatal("expected non to decline")
	}
}
