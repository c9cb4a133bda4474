package services

import (
	"strconv"
	"strings"

	"github.com/text2gene/medgen/models"

	"github.com/cockroachdb/errors"
)

// classifier prüft eine rohe Eingabe gegen genau eine Identifier-Form.
// Liefert (Identifier, true) bei Treffer, sonst (zero, false).
type classifier func(value string) (models.Identifier, bool)

// conceptChain und geneChain legen die Prüfreihenfolge explizit fest;
// der erste Treffer gewinnt.
var (
	conceptChain = []classifier{classifyCUI, classifyUID}
	geneChain    = []classifier{classifyGeneID, classifyGeneSymbol}
)

func classifyCUI(value string) (models.Identifier, bool) {
	if len(value) != 8 || value[0] != 'C' {
		return models.Identifier{}, false
	}
	for _, c := range value[1:] {
		if c < '0' || c > '9' {
			return models.Identifier{}, false
		}
	}
	return models.Identifier{Kind: models.KindConceptCUI, Value: value}, true
}

// classifyUID parst zuerst und zählt dann die Stellen des geparsten
// Werts: führende Nullen ("0000002") sind gültig und werden auf die
// kompakte Form normalisiert.
func classifyUID(value string) (models.Identifier, bool) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return models.Identifier{}, false
	}
	normalized := strconv.Itoa(n)
	if len(normalized) > 6 {
		return models.Identifier{}, false
	}
	return models.Identifier{Kind: models.KindConceptUID, Value: normalized}, true
}

func classifyGeneID(value string) (models.Identifier, bool) {
	if _, err := strconv.Atoi(value); err != nil {
		return models.Identifier{}, false
	}
	return models.Identifier{Kind: models.KindGeneNumericID, Value: value}, true
}

// classifyGeneSymbol akzeptiert jede nicht-leere Zeichenkette. Symbole
// werden nicht gegen das HUGO-Vokabular geprüft; das entscheidet erst
// der Lookup.
func classifyGeneSymbol(value string) (models.Identifier, bool) {
	if value == "" {
		return models.Identifier{}, false
	}
	return models.Identifier{Kind: models.KindGeneSymbol, Value: value}, true
}

// ClassifyConcept ordnet eine rohe Eingabe der CUI- oder UID-Form zu.
// CUIs haben Vorrang: genau 8 Zeichen, führendes 'C', Rest numerisch.
// Alles andere muss als Ganzzahl mit höchstens 6 Stellen parsen;
// führende Nullen werden dabei normalisiert.
func ClassifyConcept(value string) (models.Identifier, error) {
	value = strings.TrimSpace(value)
	for _, classify := range conceptChain {
		if id, ok := classify(value); ok {
			return id, nil
		}
	}
	return models.Identifier{}, errors.Wrapf(ErrFormat, "concept %q", value)
}

// ClassifyGene ordnet eine rohe Eingabe der numerischen Gene-ID- oder
// der Symbol-Form zu. Numerisch gewinnt: eine rein numerische Eingabe
// wird immer als Gene-ID gelesen, auch wenn ein gleichnamiges Symbol
// existieren sollte.
func ClassifyGene(value string) (models.Identifier, error) {
	value = strings.TrimSpace(value)
	for _, classify := range geneChain {
		if id, ok := classify(value); ok {
			return id, nil
		}
	}
	return models.Identifier{}, errors.Wrapf(ErrFormat, "gene %q", value)
}
