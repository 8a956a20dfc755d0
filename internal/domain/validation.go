package domain

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	ethereumAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	doiRegex             = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	txHashRegex          = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// IsValidEthereumAddress checks the 0x-prefixed 40 hex digit form.
// Checksum casing is not enforced.
func IsValidEthereumAddress(address string) bool {
	return ethereumAddressRegex.MatchString(address)
}

// IsValidTxHash checks the 0x-prefixed 64 hex digit transaction hash form
func IsValidTxHash(hash string) bool {
	return txHashRegex.MatchString(hash)
}

// IsValidDOI checks if the string is a bare DOI such as 10.1000/xyz123
func IsValidDOI(doi string) bool {
	return doiRegex.MatchString(strings.TrimSpace(doi))
}

// IsValidHTTPURL checks that the string is an absolute http or https URL
func IsValidHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SanitizeChainString trims the string and removes control and non-ASCII
// characters so it can be passed as a contract argument
func SanitizeChainString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// NormalizeISBN strips separators and returns the ISBN digits, or empty
// string when the value is not a valid ISBN-10 or ISBN-13
func NormalizeISBN(isbn string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(isbn) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch len(digits) {
	case 10:
		if validISBN10(digits) {
			return digits
		}
	case 13:
		if validISBN13(digits) {
			return digits
		}
	}
	return ""
}

// IsValidISBN checks ISBN-10 or ISBN-13 checksums
func IsValidISBN(isbn string) bool {
	return NormalizeISBN(isbn) != ""
}

func validISBN10(s string) bool {
	sum := 0
	for i, r := range s {
		var v int
		switch {
		case r == 'X' && i == 9:
			v = 10
		case r >= '0' && r <= '9':
			v = int(r - '0')
		default:
			return false
		}
		sum += v * (10 - i)
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		v := int(r - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}
