package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TextCleaner turns raw PDF text into normalized prose.
type TextCleaner struct {
	minLineLength int
}

// NewTextCleaner creates a cleaner that drops lines shorter than three runes.
func NewTextCleaner() *TextCleaner {
	return &TextCleaner{minLineLength: 3}
}

var unicodeReplacer = strings.NewReplacer(
	// Quotes
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"«", `"`, "»", `"`,
	// Dashes
	"—", "-", "–", "-", "−", "-", "‐", "-", "‑", "-",
	// Spaces
	"\u00a0", " ", "\u2002", " ", "\u2003", " ", "\u2009", " ",
	"\u200b", "", "\ufeff", "",
	// Bullets
	"•", "-", "·", "-", "●", "-", "○", "-",
	"■", "-", "□", "-", "▪", "-", "▫", "-",
	"►", "-", "▸", "-", "‣", "-",
	"…", "...",
	"×", "x", "÷", "/",
	"™", "", "®", "", "©", "",
	"°", " degrees ",
	"€", "EUR ", "£", "GBP ", "¥", "JPY ",
	"½", "1/2", "¼", "1/4", "¾", "3/4",
	// NFKC turns vulgar fractions into digits around a fraction slash.
	"⁄", "/",
	"²", "2", "³", "3",
)

var (
	reHyphenBreak = regexp.MustCompile(`([\p{L}\p{N}_]+)-[ \t]*\n\s*([\p{L}\p{N}_]+)`)

	rePageNumber  = regexp.MustCompile(`(?i)^(page\s*)?\d+(\s*of\s*\d+)?$`)
	reDashedPage  = regexp.MustCompile(`^-\s*\d+\s*-$`)
	reOnlyDigits  = regexp.MustCompile(`^\d+$`)
	reNoWordChars = regexp.MustCompile(`^[^\p{L}\p{M}_]+$`)

	reURL         = regexp.MustCompile(`https?://\S+`)
	reWWW         = regexp.MustCompile(`www\.\S+`)
	reEmail       = regexp.MustCompile(`\S+@\S+\.\S+`)
	reWindowsPath = regexp.MustCompile(`[A-Za-z]:\\[\w\\]+`)
	reUnixPath    = regexp.MustCompile(`/[\w/]+\.\w+`)
	reCitation    = regexp.MustCompile(`\[?\d+\]`)
	reFigure      = regexp.MustCompile(`(?i)fig(ure)?\.?\s*\d+`)
	reTable       = regexp.MustCompile(`(?i)table\s*\d+`)

	reSpaces       = regexp.MustCompile(` +`)
	reBlankRuns    = regexp.MustCompile(`\n{3,}`)
	reSentenceGlue = regexp.MustCompile(`([.!?])([A-Z])`)
	reCommaGlue    = regexp.MustCompile(`,([A-Za-z])`)
	reBangRuns     = regexp.MustCompile(`([!?])[.!?]+`)
	reDotBang      = regexp.MustCompile(`\.[!?]+`)
	reDots         = regexp.MustCompile(`\.{2,}`)
	reSentenceEnd  = regexp.MustCompile(`[.!?:]\s*$`)
)

// Clean runs the whole cleanup pipeline. The result may be empty when the
// input had no usable text.
func (c *TextCleaner) Clean(text string) string {
	text = c.normalizeUnicode(text)
	text = c.stripControlChars(text)
	text = c.fixHyphenatedWords(text)
	text = c.removeHeadersFooters(text)
	text = c.removePageNumbers(text)
	text = c.removeSpecialPatterns(text)
	text = c.cleanWhitespace(text)
	text = c.removeShortLines(text)
	text = c.normalizeSentences(text)
	text = c.joinBrokenParagraphs(text)
	return c.cleanWhitespace(text)
}

func (c *TextCleaner) normalizeUnicode(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = norm.NFKC.String(text)
	return unicodeReplacer.Replace(text)
}

// stripControlChars drops NUL and other control runes, keeping newlines and tabs.
func (c *TextCleaner) stripControlChars(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *TextCleaner) fixHyphenatedWords(text string) string {
	return reHyphenBreak.ReplaceAllString(text, "${1}${2}")
}

// removeHeadersFooters drops short lines repeated across the document.
func (c *TextCleaner) removeHeadersFooters(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 20 {
		return text
	}

	counts := make(map[string]int)
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			counts[s]++
		}
	}
	threshold := len(lines) / 50
	if threshold < 3 {
		threshold = 3
	}

	repeated := make(map[string]struct{})
	for line, n := range counts {
		if n >= threshold && utf8.RuneCountInString(line) < 100 {
			repeated[line] = struct{}{}
		}
	}
	if len(repeated) == 0 {
		return text
	}

	kept := lines[:0]
	for _, line := range lines {
		if _, drop := repeated[strings.TrimSpace(line)]; !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func (c *TextCleaner) removePageNumbers(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s != "" && (reOnlyDigits.MatchString(s) || rePageNumber.MatchString(s) || reDashedPage.MatchString(s)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (c *TextCleaner) removeSpecialPatterns(text string) string {
	for _, re := range []*regexp.Regexp{
		reURL, reWWW, reEmail, reWindowsPath, reUnixPath, reCitation, reFigure, reTable,
	} {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

func (c *TextCleaner) cleanWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	text = reSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// removeShortLines drops artifact lines but keeps blank paragraph separators.
func (c *TextCleaner) removeShortLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			kept = append(kept, line)
			continue
		}
		if utf8.RuneCountInString(s) < c.minLineLength || reNoWordChars.MatchString(s) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (c *TextCleaner) normalizeSentences(text string) string {
	text = reSentenceGlue.ReplaceAllString(text, "$1 $2")
	text = reCommaGlue.ReplaceAllString(text, ", $1")
	text = reBangRuns.ReplaceAllString(text, "$1")
	text = reDotBang.ReplaceAllString(text, ".")
	return reDots.ReplaceAllString(text, "...")
}

// joinBrokenParagraphs merges hard-wrapped lines. A line continues the
// paragraph when the previous one does not end a sentence.
func (c *TextCleaner) joinBrokenParagraphs(text string) string {
	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			flush()
			continue
		}
		if len(current) > 0 && !reSentenceEnd.MatchString(current[len(current)-1]) {
			current = append(current, s)
			continue
		}
		flush()
		current = append(current, s)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// countWords mirrors strings.Fields.
func countWords(text string) int {
	return len(strings.Fields(text))
}

func countParagraphs(text string) int {
	n := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
