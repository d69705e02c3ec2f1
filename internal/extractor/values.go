package extractor

import "strings"

// unquote strips the quotes of a PHP string literal and resolves escapes.
// Interpolation is not detected here; callers check the syntax tree.
func unquote(lit string) (string, bool) {
	lit = strings.TrimPrefix(strings.TrimPrefix(lit, "b"), "B")
	if len(lit) < 2 {
		return "", false
	}
	q := lit[0]
	if (q != '\'' && q != '"') || lit[len(lit)-1] != q {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	if q == '\'' {
		return singleQuoted.Replace(body), true
	}
	return doubleQuoted.Replace(body), true
}

var singleQuoted = strings.NewReplacer(`\\`, `\`, `\'`, `'`)

var doubleQuoted = strings.NewReplacer(
	`\\`, `\`,
	`\"`, `"`,
	`\$`, `$`,
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
	`\v`, "\v",
	`\f`, "\f",
	`\e`, "\x1b",
)
