package codec

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrMalformed is returned by Decode for input that is not a JSON object.
var ErrMalformed = errors.New("malformed record")

// Field is one named value of a flat record
type Field struct {
	Key   string
	Value any // string, bool, or an integer type
}

// Status is the outcome of looking up a single field
type Status uint8

const (
	StatusOK Status = iota
	StatusMissing
	StatusMismatch
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusMismatch:
		return "type mismatch"
	}
	return "unknown"
}

// RecordCodec handles serialization and deserialization of records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Encode serializes fields into a JSON object, keys in the given order
func (c *RecordCodec) Encode(fields []Field) ([]byte, error) {
	out := []byte("{}")
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		if err := checkKey(f.Key); err != nil {
			return nil, err
		}
		if _, dup := seen[f.Key]; dup {
			return nil, errors.Newf("duplicate key %q", f.Key)
		}
		seen[f.Key] = struct{}{}

		switch f.Value.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
		default:
			return nil, errors.Newf("key %q: unsupported value type %T", f.Key, f.Value)
		}

		var err error
		out, err = sjson.SetBytes(out, f.Key, f.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "encode key %q", f.Key)
		}
	}

	return out, nil
}

// Decode parses a JSON object into a Record
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrMalformed, "invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.Wrapf(ErrMalformed, "expected object, got %s", root.Type)
	}
	return &Record{root: root}, nil
}

// checkKey rejects keys that would be interpreted as a path by sjson/gjson.
func checkKey(key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	if strings.ContainsAny(key, `.*?|#@\!:`) {
		return errors.Newf("key %q contains reserved characters", key)
	}
	return nil
}

// Record is a decoded record. Lookups never fail; they report a Status.
type Record struct {
	root gjson.Result
}

// Raw returns the record's JSON text as it was decoded
func (r *Record) Raw() string {
	return r.root.Raw
}

// Keys returns the top-level keys in document order
func (r *Record) Keys() []string {
	var keys []string
	r.root.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Has reports whether key is present
func (r *Record) Has(key string) bool {
	return r.root.Get(key).Exists()
}

func (r *Record) lookup(key string) (gjson.Result, bool) {
	if checkKey(key) != nil {
		return gjson.Result{}, false
	}
	v := r.root.Get(key)
	return v, v.Exists()
}

// String reads a text field
func (r *Record) String(key string) (string, Status) {
	v, ok := r.lookup(key)
	if !ok {
		return "", StatusMissing
	}
	if v.Type != gjson.String {
		return "", StatusMismatch
	}
	return v.Str, StatusOK
}

// Int reads a signed integer field. Numeric strings are accepted.
func (r *Record) Int(key string) (int64, Status) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, StatusMissing
	}
	var text string
	switch v.Type {
	case gjson.Number:
		text = v.Raw
	case gjson.String:
		text = strings.TrimSpace(v.Str)
	default:
		return 0, StatusMismatch
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, StatusMismatch
	}
	return n, StatusOK
}

// Uint reads an unsigned integer field. Numeric strings are accepted.
func (r *Record) Uint(key string) (uint64, Status) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, StatusMissing
	}
	var text string
	switch v.Type {
	case gjson.Number:
		text = v.Raw
	case gjson.String:
		text = strings.TrimSpace(v.Str)
	default:
		return 0, StatusMismatch
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, StatusMismatch
	}
	return n, StatusOK
}

// Byte reads a small unsigned field in the range 0-255
func (r *Record) Byte(key string) (uint8, Status) {
	n, st := r.Uint(key)
	if st != StatusOK {
		return 0, st
	}
	if n > 255 {
		return 0, StatusMismatch
	}
	return uint8(n), StatusOK
}

// Bool reads a boolean field. Numbers are true when non-zero; strings are
// parsed with strconv.ParseBool.
func (r *Record) Bool(key string) (bool, Status) {
	v, ok := r.lookup(key)
	if !ok {
		return false, StatusMissing
	}
	switch v.Type {
	case gjson.True:
		return true, StatusOK
	case gjson.False:
		return false, StatusOK
	case gjson.Number:
		return v.Float() != 0, StatusOK
	case gjson.String:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v.Str)))
		if err != nil {
			return false, StatusMismatch
		}
		return b, StatusOK
	}
	return false, StatusMismatch
}
