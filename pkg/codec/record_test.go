package codec

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewRecordCodec()

	fields := []Field{
		{Key: "ntp_pool", Value: "pool.ntp.org"},
		{Key: "ntp_update_interval", Value: 7200},
		{Key: "showSeconds", Value: true},
		{Key: "flashSeconds", Value: false},
		{Key: "dayBlanking", Value: uint8(8)},
		{Key: "uptime", Value: uint64(1 << 40)},
		{Key: "webPassword", Value: `p"a\ss wörd`},
		{Key: "empty", Value: ""},
		{Key: "negative", Value: int64(-42)},
	}

	encoded, err := codec.Encode(fields)
	require.NoError(t, err)

	record, err := codec.Decode(encoded)
	require.NoError(t, err)

	s, st := record.String("ntp_pool")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, "pool.ntp.org", s)

	n, st := record.Int("ntp_update_interval")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, int64(7200), n)

	b, st := record.Bool("showSeconds")
	assert.Equal(t, StatusOK, st)
	assert.True(t, b)

	b, st = record.Bool("flashSeconds")
	assert.Equal(t, StatusOK, st)
	assert.False(t, b)

	by, st := record.Byte("dayBlanking")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, uint8(8), by)

	u, st := record.Uint("uptime")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, uint64(1<<40), u)

	s, st = record.String("webPassword")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, `p"a\ss wörd`, s)

	s, st = record.String("empty")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, "", s)

	n, st = record.Int("negative")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, int64(-42), n)
}

func TestRecordCodec_EncodeIsDeterministic(t *testing.T) {
	codec := NewRecordCodec()
	fields := []Field{
		{Key: "uptime", Value: uint64(10)},
		{Key: "tubeontime", Value: uint64(3)},
	}

	first, err := codec.Encode(fields)
	require.NoError(t, err)
	second, err := codec.Encode(fields)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.JSONEq(t, `{"uptime":10,"tubeontime":3}`, string(first))
	assert.Equal(t, `{"uptime":10,"tubeontime":3}`, string(first))
}

func TestRecordCodec_EncodeErrors(t *testing.T) {
	codec := NewRecordCodec()

	tests := []struct {
		name   string
		fields []Field
	}{
		{name: "empty key", fields: []Field{{Key: "", Value: 1}}},
		{name: "duplicate key", fields: []Field{{Key: "a", Value: 1}, {Key: "a", Value: 2}}},
		{name: "path key", fields: []Field{{Key: "a.b", Value: 1}}},
		{name: "float value", fields: []Field{{Key: "a", Value: 1.5}}},
		{name: "nested value", fields: []Field{{Key: "a", Value: map[string]int{"b": 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Encode(tt.fields)
			assert.Error(t, err)
		})
	}
}

func TestRecordCodec_DecodeMalformed(t *testing.T) {
	codec := NewRecordCodec()

	inputs := map[string]string{
		"empty":     "",
		"truncated": `{"ntp_pool":"pool.ntp.or`,
		"garbage":   "\x00\x01\x02not json",
		"array":     `[1,2,3]`,
		"scalar":    `42`,
		"string":    `"hello"`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			record, err := codec.Decode([]byte(input))
			assert.Nil(t, record)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestRecord_LookupStatus(t *testing.T) {
	codec := NewRecordCodec()
	record, err := codec.Decode([]byte(`{
		"text": "hello",
		"num": 12,
		"numstr": " 34 ",
		"neg": -1,
		"big": 256,
		"float": 1.5,
		"yes": "TRUE",
		"zero": 0,
		"one": 1,
		"maybe": "perhaps",
		"null": null,
		"obj": {"a": 1}
	}`))
	require.NoError(t, err)

	_, st := record.String("absent")
	assert.Equal(t, StatusMissing, st)

	s, st := record.String("num")
	assert.Equal(t, StatusMismatch, st)
	assert.Equal(t, "", s)

	n, st := record.Int("numstr")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, int64(34), n)

	n, st = record.Int("float")
	assert.Equal(t, StatusMismatch, st)
	assert.Zero(t, n)

	n, st = record.Int("text")
	assert.Equal(t, StatusMismatch, st)
	assert.Zero(t, n)

	u, st := record.Uint("neg")
	assert.Equal(t, StatusMismatch, st)
	assert.Zero(t, u)

	by, st := record.Byte("big")
	assert.Equal(t, StatusMismatch, st)
	assert.Zero(t, by)

	by, st = record.Byte("num")
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, uint8(12), by)

	b, st := record.Bool("yes")
	assert.Equal(t, StatusOK, st)
	assert.True(t, b)

	b, st = record.Bool("zero")
	assert.Equal(t, StatusOK, st)
	assert.False(t, b)

	b, st = record.Bool("one")
	assert.Equal(t, StatusOK, st)
	assert.True(t, b)

	_, st = record.Bool("maybe")
	assert.Equal(t, StatusMismatch, st)

	_, st = record.Int("null")
	assert.Equal(t, StatusMismatch, st)

	_, st = record.String("obj")
	assert.Equal(t, StatusMismatch, st)

	_, st = record.Int("a.b")
	assert.Equal(t, StatusMissing, st)
}

func TestRecord_KeysAndRaw(t *testing.T) {
	codec := NewRecordCodec()
	raw := `{"b":1,"a":"x"}`
	record, err := codec.Decode([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, record.Keys())
	assert.Equal(t, raw, record.Raw())
	assert.True(t, record.Has("a"))
	assert.False(t, record.Has("c"))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "type mismatch", StatusMismatch.String())
}
