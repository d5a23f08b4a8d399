package translation

import "fmt"

// BuildPrompt renders the single-turn translation prompt for text.
func BuildPrompt(text, targetLang string) string {
	return fmt.Sprintf("Translate the following text into %s. "+
		"Maintain the original tone and style. "+
		"Do not add any explanations or extra text. "+
		"Just provide the translation.\n\n"+
		"Text: %s", targetLang, text)
}
