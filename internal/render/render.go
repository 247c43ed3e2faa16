package render

import (
	"strings"

	"github.com/russross/blackfriday"
)

const htmlFlags = blackfriday.HTML_USE_XHTML |
	blackfriday.HTML_SKIP_HTML |
	blackfriday.HTML_SAFELINK |
	blackfriday.HTML_NOFOLLOW_LINKS |
	blackfriday.HTML_HREF_TARGET_BLANK

const extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_TABLES |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_SPACE_HEADERS

// Markdown renders an assistant reply to HTML. Raw HTML in the input is
// dropped and only safe link schemes are kept.
func Markdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	renderer := blackfriday.HtmlRenderer(htmlFlags, "", "")
	return string(blackfriday.Markdown([]byte(src), renderer, extensions))
}
