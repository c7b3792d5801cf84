package ai

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	labeledBlockRe = regexp.MustCompile("(?s)```html\\s+variation-(\\d+)\\s*\n(.*?)```")
	fencedBlockRe  = regexp.MustCompile("(?s)```(?:html)?\\s*\n(.*?)```")
)

// ExtractCode pulls a single HTML fragment out of a model response. The
// first fenced code block wins; a response with no fences is returned
// trimmed as-is.
func ExtractCode(response string) string {
	if m := fencedBlockRe.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// ExtractVariations pulls up to three labeled HTML fragments out of a
// model response, ordered by their variation number. When the model
// ignores the labeling instructions, any generic fenced blocks that
// look like markup are accepted in document order instead.
func ExtractVariations(response string) []string {
	type labeled struct {
		n    int
		code string
	}
	var found []labeled
	for _, m := range labeledBlockRe.FindAllStringSubmatch(response, -1) {
		n, errParse := strconv.Atoi(m[1])
		if errParse != nil {
			continue
		}
		found = append(found, labeled{n: n, code: strings.TrimSpace(m[2])})
	}
	if len(found) > 0 {
		for i := 1; i < len(found); i++ {
			for j := i; j > 0 && found[j-1].n > found[j].n; j-- {
				found[j-1], found[j] = found[j], found[j-1]
			}
		}
		out := make([]string, 0, len(found))
		for _, f := range found {
			if len(out) == 3 {
				break
			}
			out = append(out, f.code)
		}
		return out
	}

	var out []string
	for _, m := range fencedBlockRe.FindAllStringSubmatch(response, -1) {
		code := strings.TrimSpace(m[1])
		if !strings.Contains(code, "<div") {
			continue
		}
		out = append(out, code)
		if len(out) == 3 {
			break
		}
	}
	return out
}
