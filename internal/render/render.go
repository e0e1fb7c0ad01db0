package render

import "strings"

// Markdown renders content with a renderer borrowed for opts
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.borrow(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.release(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with the default options wrapped at width
func MarkdownWithWidth(content string, width int) (string, error) {
	opts := DefaultOptions().WithWidth(width)
	return Markdown(content, opts)
}

// Answer renders an assistant answer, falling back to the raw text when the
// markdown renderer fails. Surrounding blank lines added by glamour are trimmed.
func Answer(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
