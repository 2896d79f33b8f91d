package normalization

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var priceRE = regexp.MustCompile(`^\d{1,6}(\.\d{1,2})?$`)

// Price is a non-negative fixed-point amount held in cents.
type Price int64

const priceField = "price"

// ParsePrice accepts at most six integer digits and at most two fractional digits.
func ParsePrice(input string) (Price, error) {
	s := strings.TrimSpace(input)
	if !priceRE.MatchString(s) {
		if strings.HasPrefix(s, "-") {
			return 0, &FieldError{Field: priceField, Msg: "ensure this value is greater than or equal to 0"}
		}
		if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
			return 0, &FieldError{Field: priceField, Msg: "ensure that there are no more than 2 decimal places"}
		}
		return 0, &FieldError{Field: priceField, Msg: "a valid number with at most 6 digits before the decimal point is required"}
	}
	whole, frac, _ := strings.Cut(s, ".")
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: priceField, Msg: "a valid number is required", Err: err}
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: priceField, Msg: "a valid number is required", Err: err}
	}
	return Price(w*100 + f), nil
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts "12.30" or 12.3. Numbers go through their literal
// text so 12.345 is still rejected.
func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &FieldError{Field: priceField, Msg: "a valid number is required", Err: err}
		}
		raw = s
	}
	v, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p *Price) UnmarshalParam(param string) error {
	v, err := ParsePrice(param)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Value stores the amount as a decimal literal so NUMERIC(8,2) columns keep it exact.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = 0
		return nil
	case int64:
		*p = Price(v * 100)
		return nil
	case float64:
		return p.scanString(strconv.FormatFloat(v, 'f', 2, 64))
	case []byte:
		return p.scanString(string(v))
	case string:
		return p.scanString(v)
	default:
		return fmt.Errorf("price: unsupported scan type %T", src)
	}
}

func (p *Price) scanString(s string) error {
	s = strings.TrimSpace(s)
	// NUMERIC may come back with more trailing zeros than we allow on input.
	if whole, frac, ok := strings.Cut(s, "."); ok && len(frac) > 2 {
		frac = strings.TrimRight(frac, "0")
		if len(frac) > 2 {
			frac = frac[:2]
		}
		s = whole
		if frac != "" {
			s += "." + frac
		}
	}
	v, err := ParsePrice(s)
	if err != nil {
		return fmt.Errorf("price: scan %q: %w", s, err)
	}
	*p = v
	return nil
}
