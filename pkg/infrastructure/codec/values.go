package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05.999999999"
)

var dateTimeInputs = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// FormatDate escreve a data civil, sem fuso.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDateTime escreve data e hora locais; frações de segundo só aparecem quando existem.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(DateTimeLayout)
}

// ParseDateTime aceita segundos opcionais e frações de segundo.
func ParseDateTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateTimeInputs {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parsing date-time %q: %w", s, lastErr)
}

// FlexInt aceita tanto número quanto string numérica.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parsing integer %s: %w", string(data), err)
	}
	*f = FlexInt(n)
	return nil
}
