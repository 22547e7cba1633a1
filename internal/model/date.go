package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// dateLayout は日付のシリアライズ形式。時刻成分を持たない。
const dateLayout = "2006-01-02"

// Date はタイムゾーン変換を行わないカレンダー上の1日を表す。
// 内部的にはUTC深夜0時に正規化したtime.Timeを保持する。
// 比較可能な値型のため、マップのキーとして使用できる。
type Date struct {
	t time.Time
}

// NewDate は年・月・日からDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf はtime.Timeのカレンダー上の日付成分（そのロケーションでの値）からDateを生成する。
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate は"2006-01-02"形式の文字列をDateに変換する。
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String は"2006-01-02"形式の文字列を返す。
func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// IsZero はゼロ値かどうかを返す。
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Before はdがotherより前の日付かどうかを返す。
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After はdがotherより後の日付かどうかを返す。
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// AddDays はn日後（nが負の場合はn日前）の日付を返す。
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddMonths はnカ月後（nが負の場合はnカ月前）の日付を返す。
// 月末の繰り上がりはtime.AddDateの正規化に従う。
func (d Date) AddMonths(n int) Date {
	return Date{t: d.t.AddDate(0, n, 0)}
}

// InRange はstart <= d <= end（両端含む）かどうかを返す。
func (d Date) InRange(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// MarshalJSON は"2006-01-02"形式のJSON文字列を出力する。
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON は"2006-01-02"形式のJSON文字列を解析する。
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", string(b))
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText はマップのキーとして使用された場合のJSONエンコードに対応する。
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText はマップのキーとして使用された場合のJSONデコードに対応する。
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value はDATEカラムへの書き込み用にdriver.Valuerを実装する。
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan はDATEカラムからの読み込み用にsql.Scannerを実装する。
// ドライバが返す時刻成分・タイムゾーンは捨て、日付成分のみを採用する。
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Date())
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into model.Date", src)
	}
}
