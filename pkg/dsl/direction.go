package dsl

import (
	"github.com/aretw0/libretto/pkg/domain"
	"golang.org/x/text/language"
)

// Scripts written right to left.
var rtlScripts = map[string]bool{
	"Adlm": true, "Arab": true, "Hebr": true, "Mand": true, "Nkoo": true,
	"Rohg": true, "Samr": true, "Syrc": true, "Thaa": true,
}

// InferDirection guesses the writing direction of a language tag from its
// likely script. Tags that are not well-formed BCP 47 (e.g. "arabic") or
// whose script cannot be guessed with confidence yield DirectionUnset.
func InferDirection(lang string) domain.Direction {
	tag, err := language.Parse(lang)
	if err != nil {
		return domain.DirectionUnset
	}
	script, conf := tag.Script()
	if conf < language.High {
		return domain.DirectionUnset
	}
	if rtlScripts[script.String()] {
		return domain.DirectionRTL
	}
	return domain.DirectionLTR
}
