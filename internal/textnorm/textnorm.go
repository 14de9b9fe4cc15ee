// Package textnorm normalizes stored strings on the relational commit path.
// Catalog metadata arrives from uploaders in mixed scripts; digits and a few
// Arabic codepoints that render like their Persian counterparts are folded to
// one canonical form so lookups and uniqueness checks behave.
package textnorm

import "strings"

var digitFolder = strings.NewReplacer(
	// Persian digits
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	// Arabic-Indic digits
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

var charFixer = strings.NewReplacer(
	"ﮎ", "ک",
	"ﮏ", "ک",
	"ﮐ", "ک",
	"ﮑ", "ک",
	"ك", "ک",
	"ي", "ی",
	"ھ", "ه",
	" ", " ", // no-break space
)

// FoldDigits rewrites Persian and Arabic-Indic digits to ASCII.
func FoldDigits(s string) string {
	return digitFolder.Replace(s)
}

// FixChars rewrites Arabic presentation forms and letters to the Persian
// codepoints the rest of the catalog uses.
func FixChars(s string) string {
	return charFixer.Replace(s)
}

// Normalize applies the full pass: digit folding then character fix-up.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	return FixChars(FoldDigits(s))
}
