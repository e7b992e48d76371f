package tablefile

import (
	"fmt"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-soccer-metrics/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// column maps one CSV column onto a field of T.
type column[T any] struct {
	name string
	get  func(*T) (string, error)
	set  func(*T, string) error
}

func intCol[T any](name string, f func(*T) *int) column[T] {
	return column[T]{
		name: name,
		get:  func(r *T) (string, error) { return strconv.Itoa(*f(r)), nil },
		set: func(r *T, s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*f(r) = v
			return nil
		},
	}
}

// optIntCol stores nil as an empty cell.
func optIntCol[T any](name string, f func(*T) **int) column[T] {
	return column[T]{
		name: name,
		get: func(r *T) (string, error) {
			if p := *f(r); p != nil {
				return strconv.Itoa(*p), nil
			}
			return "", nil
		},
		set: func(r *T, s string) error {
			if s == "" {
				*f(r) = nil
				return nil
			}
			v, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*f(r) = &v
			return nil
		},
	}
}

// floatCol stores NaN as an empty cell.
func floatCol[T any](name string, f func(*T) *float64) column[T] {
	return column[T]{
		name: name,
		get: func(r *T) (string, error) {
			v := *f(r)
			if math.IsNaN(v) {
				return "", nil
			}
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		},
		set: func(r *T, s string) error {
			if s == "" {
				*f(r) = math.NaN()
				return nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			*f(r) = v
			return nil
		},
	}
}

func strCol[T any](name string, f func(*T) *string) column[T] {
	return column[T]{
		name: name,
		get:  func(r *T) (string, error) { return *f(r), nil },
		set:  func(r *T, s string) error { *f(r) = s; return nil },
	}
}

func boolCol[T any](name string, f func(*T) *bool) column[T] {
	return column[T]{
		name: name,
		get:  func(r *T) (string, error) { return strconv.FormatBool(*f(r)), nil },
		set: func(r *T, s string) error {
			if s == "" {
				*f(r) = false
				return nil
			}
			v, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			*f(r) = v
			return nil
		},
	}
}

// locCol stores a location as a JSON [x, y] pair, nil as an empty cell.
func locCol[T any](name string, f func(*T) **model.Location) column[T] {
	return column[T]{
		name: name,
		get: func(r *T) (string, error) {
			l := *f(r)
			if l == nil {
				return "", nil
			}
			b, err := json.Marshal([2]float64{l.X, l.Y})
			return string(b), err
		},
		set: func(r *T, s string) error {
			if s == "" {
				*f(r) = nil
				return nil
			}
			var xy [2]float64
			if err := json.UnmarshalFromString(s, &xy); err != nil {
				return err
			}
			*f(r) = &model.Location{X: xy[0], Y: xy[1]}
			return nil
		},
	}
}

// jsonCol stores a nested value as JSON; "null" and empty cells decode to the zero value.
func jsonCol[T, V any](name string, f func(*T) *V) column[T] {
	return column[T]{
		name: name,
		get: func(r *T) (string, error) {
			b, err := json.Marshal(*f(r))
			return string(b), err
		},
		set: func(r *T, s string) error {
			var v V
			if s != "" {
				if err := json.UnmarshalFromString(s, &v); err != nil {
					return err
				}
			}
			*f(r) = v
			return nil
		},
	}
}

func encodeRow[T any](cols []column[T], r *T) ([]string, error) {
	rec := make([]string, len(cols))
	for i, c := range cols {
		s, err := c.get(r)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		rec[i] = s
	}
	return rec, nil
}
