package resolve

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Format expands {name} and {name:spec} placeholders in tmpl. Doubled braces
// are literal. Specs apply to integers only and follow the str.format
// [[fill]align][0][width][d] subset, so "03", "03d", "0>3" and ">3" all work.
func Format(tmpl string, values map[string]any) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", &TemplateError{Template: tmpl, Msg: "unclosed '{'"}
			}
			field := tmpl[i+1 : i+end]
			out, err := formatField(field, values)
			if err != nil {
				return "", &TemplateError{Template: tmpl, Msg: err.Error()}
			}
			b.WriteString(out)
			i += end
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", &TemplateError{Template: tmpl, Msg: "single '}' encountered"}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func formatField(field string, values map[string]any) (string, error) {
	name, spec, _ := strings.Cut(field, ":")
	v, ok := values[name]
	if !ok {
		return "", fmt.Errorf("unknown placeholder {%s}", name)
	}
	if spec == "" {
		return fmt.Sprint(v), nil
	}

	n, isInt := v.(int)
	if !isInt {
		return "", fmt.Errorf("format spec %q needs an integer for {%s}", spec, name)
	}
	is, ok := parseIntSpec(spec)
	if !ok {
		return "", fmt.Errorf("unsupported format spec %q for {%s}", spec, name)
	}
	return is.format(n), nil
}

// intSpec is the integer part of the str.format mini-language:
// [[fill]align][0][width][d].
type intSpec struct {
	fill  string
	align byte
	width int
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

func parseIntSpec(spec string) (intSpec, bool) {
	is := intSpec{fill: " "}
	s := spec
	explicitFill := false

	if r, size := utf8.DecodeRuneInString(s); r != utf8.RuneError && size < len(s) && isAlign(s[size]) {
		is.fill, is.align, s = s[:size], s[size], s[size+1:]
		explicitFill = true
	} else if len(s) > 0 && isAlign(s[0]) {
		is.align, s = s[0], s[1:]
	}

	zero := strings.HasPrefix(s, "0")
	if zero {
		s = s[1:]
	}
	s = strings.TrimSuffix(s, "d")

	if s != "" {
		w, err := strconv.Atoi(s)
		if err != nil || w < 0 || strings.ContainsAny(s, "+-") {
			return intSpec{}, false
		}
		is.width = w
	}

	if zero && !explicitFill {
		is.fill = "0"
		if is.align == 0 {
			is.align = '='
		}
	}
	if is.align == 0 {
		is.align = '>'
	}
	return is, true
}

func (is intSpec) format(n int) string {
	digits := strconv.Itoa(n)
	pad := is.width - len(digits)
	if pad <= 0 {
		return digits
	}
	switch is.align {
	case '<':
		return digits + strings.Repeat(is.fill, pad)
	case '^':
		left := pad / 2
		return strings.Repeat(is.fill, left) + digits + strings.Repeat(is.fill, pad-left)
	case '=':
		if n < 0 {
			return "-" + strings.Repeat(is.fill, pad) + digits[1:]
		}
		return strings.Repeat(is.fill, pad) + digits
	default:
		return strings.Repeat(is.fill, pad) + digits
	}
}
