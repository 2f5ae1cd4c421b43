package services

import "strings"

const minAnswerWords = 5

// IsValidAnswer rejects answers under five words or with fewer than three distinct characters.
func IsValidAnswer(text string) bool {
	if len(strings.Fields(text)) < minAnswerWords {
		return false
	}
	return distinctCharacters(text) >= 3
}
