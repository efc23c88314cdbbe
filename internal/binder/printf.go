package binder

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-binder/internal/types"
)

// verifyFormatString implements spec §4.5 "Printf-format verification": the
// format string's `%b %s %i %u %x %f` specifiers are matched arg-by-arg
// against argTypes; explicit widths (`%u32`) are preserved and implicit ones
// are inserted, producing the rewritten format string the backend consumes.
// Array `[...]` and tuple `(...)` groupings are not recognised: a `%`
// followed by `[` or `(` is reported as an unknown format specifier.
// Escape sequences `\" \\ \n \t \a \b \e \f \r \v` and `\xHH` are accepted;
// anything else is a diagnostic.
func verifyFormatString(format string, argTypes []*types.Datatype) (string, error) {
	var out strings.Builder
	argIdx := 0
	runes := []rune(format)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' {
			if i+1 >= len(runes) {
				return "", fmt.Errorf("format string ends with a bare backslash")
			}
			next := runes[i+1]
			switch next {
			case '"', '\\', 'n', 't', 'a', 'b', 'e', 'f', 'r', 'v':
				out.WriteRune(c)
				out.WriteRune(next)
				i++
				continue
			case 'x':
				if i+3 >= len(runes) || !isHex(runes[i+2]) || !isHex(runes[i+3]) {
					return "", fmt.Errorf("malformed \\xHH escape at offset %d", i)
				}
				out.WriteRune(c)
				out.WriteRune(next)
				out.WriteRune(runes[i+2])
				out.WriteRune(runes[i+3])
				i += 3
				continue
			default:
				return "", fmt.Errorf("unrecognized escape sequence \\%c", next)
			}
		}

		if c != '%' {
			out.WriteRune(c)
			continue
		}

		verb, widthSuffix, consumed, err := scanFormatVerb(runes[i+1:])
		if err != nil {
			return "", err
		}
		i += consumed

		if argIdx >= len(argTypes) {
			return "", fmt.Errorf("format string has more specifiers than arguments")
		}
		argDT := argTypes[argIdx]
		argIdx++

		if err := verbMatchesType(verb, argDT); err != nil {
			return "", err
		}

		out.WriteRune('%')
		out.WriteRune(verb)
		if widthSuffix != "" {
			out.WriteString(widthSuffix)
		} else if argDT.Kind() == types.KindUint || argDT.Kind() == types.KindInt || argDT.Kind() == types.KindFloat {
			out.WriteString(fmt.Sprintf("%d", argDT.Width()))
		}
	}

	if argIdx != len(argTypes) {
		return "", fmt.Errorf("format string has fewer specifiers (%d) than arguments (%d)", argIdx, len(argTypes))
	}

	return out.String(), nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanFormatVerb reads one verb letter plus an optional decimal width
// suffix (e.g. "u32") starting right after a '%'. Returns the verb, the
// literal width suffix text (if any), and how many runes were consumed.
func scanFormatVerb(rest []rune) (verb rune, widthSuffix string, consumed int, err error) {
	if len(rest) == 0 {
		return 0, "", 0, fmt.Errorf("format string ends with a bare '%%'")
	}
	verb = rest[0]
	switch verb {
	case 'b', 's', 'i', 'u', 'x', 'f':
	default:
		return 0, "", 0, fmt.Errorf("unknown format specifier %%%c", verb)
	}
	consumed = 1
	j := 1
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}
	if j > 1 {
		widthSuffix = string(rest[1:j])
		consumed = j
	}
	return verb, widthSuffix, consumed, nil
}

func verbMatchesType(verb rune, dt *types.Datatype) error {
	switch verb {
	case 'b':
		if dt.Kind() != types.KindBool {
			return fmt.Errorf("%%b requires Bool, got %s", dt)
		}
	case 's':
		if dt.Kind() != types.KindString {
			return fmt.Errorf("%%s requires String, got %s", dt)
		}
	case 'i':
		if dt.Kind() != types.KindInt {
			return fmt.Errorf("%%i requires Int, got %s", dt)
		}
	case 'u':
		if dt.Kind() != types.KindUint {
			return fmt.Errorf("%%u requires Uint, got %s", dt)
		}
	case 'x':
		if dt.Kind() != types.KindUint && dt.Kind() != types.KindInt {
			return fmt.Errorf("%%x requires an integer, got %s", dt)
		}
	case 'f':
		if dt.Kind() != types.KindFloat {
			return fmt.Errorf("%%f requires Float, got %s", dt)
		}
	}
	return nil
}
