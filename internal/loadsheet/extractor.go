package loadsheet

// RawFields maps a locator name to the tokens of the line it matched. A
// locator that found nothing maps to an empty slice.
type RawFields map[string][]string

// Token returns the token at index of the named locator's line
func (f RawFields) Token(locator string, index int) (string, bool) {
	tokens := f[locator]
	if index < 0 || index >= len(tokens) {
		return "", false
	}
	return tokens[index], true
}

// Extraction is the result of applying a locator set to a LineSequence
type Extraction struct {
	Fields RawFields
	Misses []Miss
}

// Extract applies every locator to the full line sequence. Locators are
// independent: two keyword locators may match the same or different lines.
// Keyword locators share a single scan that ends once all have matched.
func Extract(lines LineSequence, locators []Locator) Extraction {
	ex := Extraction{Fields: make(RawFields, len(locators))}

	pending := make([]int, 0, len(locators))
	for i, loc := range locators {
		ex.Fields[loc.Name] = []string{}

		switch loc.Kind {
		case Positional:
			if loc.Offset < 0 || loc.Offset >= len(lines) {
				ex.Misses = append(ex.Misses, Miss{Locator: loc.Name, Reason: MissOutOfRange})
				continue
			}
			ex.Fields[loc.Name] = Tokens(lines[loc.Offset])
		case Keyword:
			pending = append(pending, i)
		}
	}

	for _, line := range lines {
		if len(pending) == 0 {
			break
		}
		remaining := pending[:0]
		for _, i := range pending {
			if locators[i].matches(line) {
				ex.Fields[locators[i].Name] = Tokens(line)
				continue
			}
			remaining = append(remaining, i)
		}
		pending = remaining
	}

	for _, i := range pending {
		ex.Misses = append(ex.Misses, Miss{Locator: locators[i].Name, Reason: MissNoKeyword})
	}

	return ex
}
