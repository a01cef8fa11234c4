package mcptools

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/example/taskboard/internal/core/task"
)

// args wraps the raw tool-call arguments.
type args map[string]any

// str returns a string argument and whether it was supplied.
// An explicit JSON null counts as not supplied.
func (a args) str(name string) (string, bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, task.Invalid("%s must be a string", name)
	}
	return s, true, nil
}

// num returns an integer argument and whether it was supplied.
// JSON numbers arrive as float64; numeric strings are accepted too.
// Values outside the int32 range are rejected.
func (a args) num(name string) (int64, bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return 0, false, nil
	}

	var i int64
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false, task.Invalid("%s must be an integer", name)
		}
		if math.Abs(n) > math.MaxInt32 {
			return 0, false, task.Invalid("%s is out of range", name)
		}
		i = int64(n)
	case int:
		i = int64(n)
	case int64:
		i = n
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, false, task.Invalid("%s must be an integer", name)
		}
		i = parsed
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false, task.Invalid("%s must be an integer", name)
		}
		i = parsed
	default:
		return 0, false, task.Invalid("%s must be a number", name)
	}

	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, false, task.Invalid("%s is out of range", name)
	}
	return i, true, nil
}

func (a args) requireStr(name string) (string, error) {
	s, ok, err := a.str(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", task.Invalid("%s is required", name)
	}
	return s, nil
}

func (a args) requireNum(name string) (int64, error) {
	n, ok, err := a.num(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, task.Invalid("%s is required", name)
	}
	return n, nil
}

// optStr returns a pointer to a supplied string argument, nil otherwise.
func (a args) optStr(name string) (*string, error) {
	s, ok, err := a.str(name)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}
