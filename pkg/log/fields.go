package log

import "time"

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func Str(key, value string) Field             { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field     { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Duration records d in milliseconds under key.
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: float64(d.Microseconds()) / 1000.0}
}

// Err records err under the "error" key. A nil error yields an empty string.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: ""}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags the entry with a component name.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }

// Entity tags the entry with a canonical entity key.
func Entity(key string) Field { return Field{Key: "entity", Value: key} }
