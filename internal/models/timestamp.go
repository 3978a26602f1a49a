package models

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// TimestampKind - форма, в которой поле timestamp записано в хранилище
type TimestampKind int

const (
	TimestampMissing TimestampKind = iota
	TimestampNative
	TimestampString
	TimestampNumber
	TimestampInvalid
)

// RawTimestamp - поле timestamp до нормализации.
// Существует только на границе декодирования документа.
type RawTimestamp struct {
	Kind   TimestampKind
	Native time.Time
	Text   string
	Number float64
}

// nativeTimestamp - объект времени хранилища (секунды + наносекунды)
type nativeTimestamp struct {
	Seconds     *int64 `json:"_seconds"`
	Nanoseconds int64  `json:"_nanoseconds"`
	AltSeconds  *int64 `json:"seconds"`
	AltNanos    int64  `json:"nanoseconds"`
}

// maxEpochMillis - граница допустимого диапазона дат (±8.64e15 мс)
const maxEpochMillis = 8.64e15

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NativeTimestamp строит значение в форме объекта хранилища
func NativeTimestamp(t time.Time) RawTimestamp {
	return RawTimestamp{Kind: TimestampNative, Native: t.UTC()}
}

// StringTimestamp строит значение в форме ISO-8601 строки
func StringTimestamp(s string) RawTimestamp {
	return RawTimestamp{Kind: TimestampString, Text: s}
}

// EpochTimestamp строит значение в форме числа миллисекунд
func EpochTimestamp(ms float64) RawTimestamp {
	return RawTimestamp{Kind: TimestampNumber, Number: ms}
}

// UnmarshalJSON никогда не возвращает ошибку для неподходящей формы значения:
// такое значение помечается как TimestampInvalid и позже заменяется текущим временем.
func (t *RawTimestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = RawTimestamp{Kind: TimestampMissing}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*t = RawTimestamp{Kind: TimestampInvalid}
			return nil
		}
		*t = StringTimestamp(s)
	case '{':
		var n nativeTimestamp
		if err := json.Unmarshal(trimmed, &n); err != nil {
			*t = RawTimestamp{Kind: TimestampInvalid}
			return nil
		}
		switch {
		case n.Seconds != nil:
			*t = NativeTimestamp(time.Unix(*n.Seconds, n.Nanoseconds))
		case n.AltSeconds != nil:
			*t = NativeTimestamp(time.Unix(*n.AltSeconds, n.AltNanos))
		default:
			*t = RawTimestamp{Kind: TimestampInvalid}
		}
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			*t = RawTimestamp{Kind: TimestampInvalid}
			return nil
		}
		*t = EpochTimestamp(f)
	}
	return nil
}

// MarshalJSON записывает значение в исходной форме
func (t RawTimestamp) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TimestampNative:
		return json.Marshal(map[string]int64{
			"_seconds":     t.Native.Unix(),
			"_nanoseconds": int64(t.Native.Nanosecond()),
		})
	case TimestampString:
		return json.Marshal(t.Text)
	case TimestampNumber:
		return json.Marshal(t.Number)
	default:
		return []byte("null"), nil
	}
}

// Normalize приводит значение к time.Time.
// Второй результат false означает, что подставлено now.
func (t RawTimestamp) Normalize(now time.Time) (time.Time, bool) {
	switch t.Kind {
	case TimestampNative:
		return t.Native, true
	case TimestampString:
		if parsed, ok := parseTimestampString(t.Text); ok {
			return parsed, true
		}
	case TimestampNumber:
		if epoch, ok := epochMillis(t.Number); ok {
			return epoch, true
		}
	}
	return now, false
}

func parseTimestampString(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// epochMillis переводит миллисекунды эпохи без потери точности для целых значений
func epochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	whole := math.Floor(ms)
	frac := time.Duration((ms - whole) * float64(time.Millisecond))
	return time.UnixMilli(int64(whole)).Add(frac).UTC(), true
}
