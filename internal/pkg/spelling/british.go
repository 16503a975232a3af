package spelling

import (
	"regexp"
	"strings"

	"github.com/airenas/minutego/internal/pkg/api"
)

var wordRegexp = regexp.MustCompile(`[a-zA-Z]+`)

//ToBritish replaces known American spellings, keeping word case.
//Words touching backticks are left as is
func ToBritish(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	idx := wordRegexp.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return text
	}
	var sb strings.Builder
	last := 0
	for _, p := range idx {
		sb.WriteString(text[last:p[0]])
		w := text[p[0]:p[1]]
		if !nearBacktick(text, p[0], p[1]) {
			w = convert(w)
		}
		sb.WriteString(w)
		last = p[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

//Entries converts text of each dialogue entry
func Entries(entries []api.DialogueEntry) []api.DialogueEntry {
	if entries == nil {
		return nil
	}
	res := make([]api.DialogueEntry, len(entries))
	for i, e := range entries {
		e.Text = ToBritish(e.Text)
		res[i] = e
	}
	return res
}

func nearBacktick(text string, from, to int) bool {
	return (from > 0 && text[from-1] == '`') || (to < len(text) && text[to] == '`')
}

func convert(w string) string {
	lw := strings.ToLower(w)
	b, ok := americanToBritish[lw]
	if !ok {
		return w
	}
	switch {
	case w == strings.ToUpper(w) && len(w) > 1:
		return strings.ToUpper(b)
	case w[:1] == strings.ToUpper(w[:1]):
		return strings.ToUpper(b[:1]) + b[1:]
	}
	return b
}
