package models

import (
	"errors"
	"regexp"
	"slices"
	"strconv"
)

var (
	ErrNumberFormat = errors.New("expected format CODE-1234-YYYY")
	ErrNumberCode   = errors.New("code not allowed")
	ErrNumberYear   = errors.New("invalid year")
)

var cereNumberRx = regexp.MustCompile(`^([A-Z]{3})-(\d{4,6})-(\d{4})$`)

// AllowedCereCodes are the post codes a CERE number may start with.
var AllowedCereCodes = []string{"LSH", "LSI", "KZI", "SKN", "PWE", "KIS", "KSA", "KPS"}

// ValidateCereNumber checks an upper-cased CERE number such as "LSH-1234-2025":
// an allowed three-letter code, 4 to 6 digits, and a year in [2000, 2100].
func ValidateCereNumber(number string) error {
	m := cereNumberRx.FindStringSubmatch(number)
	if m == nil {
		return ErrNumberFormat
	}
	if !slices.Contains(AllowedCereCodes, m[1]) {
		return ErrNumberCode
	}
	year, _ := strconv.Atoi(m[3])
	if year < 2000 || year > 2100 {
		return ErrNumberYear
	}
	return nil
}
