package pipeline

import (
	"fmt"
	"html"
	"strings"
)

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent breaking out of the style block.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	return insertInHead(htmlContent, styleBlock)
}

// InjectStylesheets inserts one <link rel="stylesheet"> per href, in
// order, so later sheets can override earlier ones.
func InjectStylesheets(htmlContent string, hrefs []string) string {
	if len(hrefs) == 0 {
		return htmlContent
	}

	var b strings.Builder
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<link rel="stylesheet" href="%s">`, html.EscapeString(href))
	}
	return insertInHead(htmlContent, b.String())
}

// InjectScripts appends one <script src> per entry before </body>.
func InjectScripts(htmlContent string, srcs []string) string {
	if len(srcs) == 0 {
		return htmlContent
	}

	var b strings.Builder
	for _, src := range srcs {
		fmt.Fprintf(&b, `<script src="%s"></script>`, html.EscapeString(src))
	}
	scripts := b.String()

	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + scripts + htmlContent[idx:]
	}
	return htmlContent + scripts
}

// InjectBaseHref inserts a <base> element so relative references in the
// document resolve against the local asset server. A document that
// already carries a <base> is left alone.
func InjectBaseHref(htmlContent, baseURL string) string {
	if baseURL == "" {
		return htmlContent
	}
	if strings.Contains(strings.ToLower(htmlContent), "<base") {
		return htmlContent
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base := fmt.Sprintf(`<base href="%s">`, html.EscapeString(baseURL))
	return insertInHead(htmlContent, base)
}

// InjectBodyClass adds the given classes to the <body> element,
// creating or extending its class attribute.
func InjectBodyClass(htmlContent string, classes []string) string {
	if len(classes) == 0 {
		return htmlContent
	}
	joined := html.EscapeString(strings.Join(classes, " "))

	lowerHTML := strings.ToLower(htmlContent)
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return htmlContent
	}

	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return htmlContent
	}
	tag := htmlContent[idx : idx+closeIdx+1]

	// Extend an existing class attribute instead of adding a second one.
	if attrIdx := strings.Index(strings.ToLower(tag), `class="`); attrIdx != -1 {
		insertPos := idx + attrIdx + len(`class="`)
		return htmlContent[:insertPos] + joined + " " + htmlContent[insertPos:]
	}

	withClass := fmt.Sprintf(`<body class="%s"`, joined) + tag[len("<body"):]
	return htmlContent[:idx] + withClass + htmlContent[idx+len(tag):]
}

// insertInHead places fragment before </head>, falling back to after
// <body>, then to prepending.
func insertInHead(htmlContent, fragment string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + fragment + htmlContent[insertPos:]
		}
	}

	return fragment + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
