package errors

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// Input limits shared by the CLI and the server.
const (
	MaxFloors        = 10
	MaxDetail        = 100
	MaxStyleLength   = 80
	MaxLotDimensionM = 10000.0
)

// Units accepted for lot dimensions.
var Units = []string{"m", "cm"}

// ValidateLot checks lot dimensions in meters. Both must be positive, finite
// and at most MaxLotDimensionM.
func ValidateLot(widthM, lengthM float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", widthM}, {"length", lengthM}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidLot, "lot %s must be a number", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeInvalidLot, "lot %s must be greater than zero", d.name)
		}
		if d.v > MaxLotDimensionM {
			return New(ErrCodeInvalidLot, "lot %s exceeds %.0f m", d.name, MaxLotDimensionM)
		}
	}
	return nil
}

// ValidateFloors checks the floor count is within 1..MaxFloors.
func ValidateFloors(n int) error {
	if n < 1 || n > MaxFloors {
		return New(ErrCodeInvalidFloors, "floors must be between 1 and %d, got %d", MaxFloors, n)
	}
	return nil
}

// ValidateDetail checks the detail level is within 0..MaxDetail.
func ValidateDetail(d int) error {
	if d < 0 || d > MaxDetail {
		return New(ErrCodeInvalidDetail, "detail must be between 0 and %d, got %d", MaxDetail, d)
	}
	return nil
}

// ValidateUnit checks the length unit.
func ValidateUnit(u string) error {
	for _, ok := range Units {
		if u == ok {
			return nil
		}
	}
	return New(ErrCodeInvalidUnit, "unit must be one of %s, got %q", strings.Join(Units, ", "), u)
}

// ValidateStyle checks the free-form house style. It is embedded verbatim in
// the image prompt, so control characters and overly long values are
// rejected.
func ValidateStyle(s string) error {
	if len(s) > MaxStyleLength {
		return New(ErrCodeInvalidStyle, "style too long (max %d characters)", MaxStyleLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "style contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL checks an image URL handed back by a provider before it is
// shown to users. Only absolute http(s) URLs with a host pass.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return New(ErrCodeInvalidInput, "image URL is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "image URL is malformed")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return New(ErrCodeInvalidInput, "image URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "image URL has no host")
	}
	return nil
}
