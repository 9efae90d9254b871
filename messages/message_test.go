package messages

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value float64
		isNaN bool
	}{
		{"integer", "10", 10, false},
		{"decimal", "3.25", 3.25, false},
		{"negative", "-4", -4, false},
		{"surrounding whitespace", " 42\n", 42, false},
		{"exponent", "1e3", 1000, false},
		{"out of range", "1e400", math.Inf(1), false},
		{"word", "hello", 0, true},
		{"empty", "", 0, true},
		{"trailing garbage", "12abc", 0, true},
		{"nan literal", "NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := New(tt.text)
			assert.Equal(t, tt.text, msg.Text())
			assert.Equal(t, []byte(tt.text), msg.Bytes())
			assert.Equal(t, tt.isNaN, msg.IsNaN())
			if !tt.isNaN {
				assert.Equal(t, tt.value, msg.Float())
			}
			assert.False(t, msg.Timestamp().IsZero())
		})
	}
}

func TestFromBytes(t *testing.T) {
	msg := FromBytes([]byte("3.5"))
	assert.Equal(t, "3.5", msg.Text())
	assert.Equal(t, 3.5, msg.Float())
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		value float64
		text  string
	}{
		{7, "7"},
		{9.5, "9.5"},
		{-0.25, "-0.25"},
		{0, "0"},
		{1e21, "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			msg := FromFloat(tt.value)
			assert.Equal(t, tt.text, msg.Text())
			assert.Equal(t, tt.value, msg.Float())
			assert.False(t, msg.IsNaN())
		})
	}

	t.Run("nan stays nan", func(t *testing.T) {
		msg := FromFloat(math.NaN())
		assert.Equal(t, "NaN", msg.Text())
		assert.True(t, msg.IsNaN())
	})
}

func TestMessage_ZeroValue(t *testing.T) {
	var msg Message
	assert.Equal(t, "", msg.Text())
	assert.Empty(t, msg.Bytes())
	assert.True(t, msg.IsNaN())
	assert.True(t, msg.Timestamp().IsZero())
}

func TestMessage_BytesAreCopied(t *testing.T) {
	msg := New("abc")
	b := msg.Bytes()
	b[0] = 'z'
	assert.Equal(t, []byte("abc"), msg.Bytes())
	assert.Equal(t, "abc", msg.Text())
}

func TestMessage_Equal(t *testing.T) {
	a := New("5")
	time.Sleep(time.Millisecond)
	b := FromFloat(5)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(New("6")))
}

func TestMessage_JSON(t *testing.T) {
	t.Run("numeric message", func(t *testing.T) {
		msg := FromFloat(11)
		data, err := json.Marshal(msg)
		require.NoError(t, err)

		assert.Equal(t, "11", gjson.GetBytes(data, "text").String())
		assert.Equal(t, 11.0, gjson.GetBytes(data, "value").Float())
		assert.True(t, gjson.GetBytes(data, "timestamp").Exists())

		var decoded Message
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, msg.Equal(decoded))
		assert.Equal(t, 11.0, decoded.Float())
		assert.WithinDuration(t, msg.Timestamp(), decoded.Timestamp(), time.Millisecond)
	})

	t.Run("text message omits value", func(t *testing.T) {
		data, err := json.Marshal(New("hello"))
		require.NoError(t, err)
		assert.False(t, gjson.GetBytes(data, "value").Exists())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		var msg Message
		assert.Error(t, json.Unmarshal([]byte(`{"value":1}`), &msg))
		assert.Error(t, msg.UnmarshalJSON([]byte(`not json`)))
		assert.Error(t, msg.UnmarshalJSON([]byte(`{"text":"1","timestamp":"yesterday"}`)))
	})
}
