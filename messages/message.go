package messages

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Message is an immutable payload with byte, text and numeric views.
// The zero value is an empty, non-numeric message.
type Message struct {
	text      string
	data      []byte
	value     float64
	timestamp time.Time
	valid     bool
}

// New creates a message from text.
func New(text string) Message {
	return Message{
		text:      text,
		data:      []byte(text),
		value:     parseFloat(text),
		timestamp: time.Now(),
		valid:     true,
	}
}

// FromBytes creates a message from UTF-8 encoded bytes.
func FromBytes(data []byte) Message {
	return New(string(data))
}

// FromFloat creates a message from a number, using the shortest text
// representation that parses back to the same value.
func FromFloat(v float64) Message {
	return New(FormatFloat(v))
}

// FormatFloat renders v the way FromFloat does.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		// out of range values still parse to ±Inf
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// Text returns the canonical text view.
func (m Message) Text() string {
	return m.text
}

// Bytes returns a copy of the byte view.
func (m Message) Bytes() []byte {
	if m.data == nil {
		return []byte{}
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Float returns the numeric view, NaN when the text is not a number.
func (m Message) Float() float64 {
	if !m.valid {
		return math.NaN()
	}
	return m.value
}

// IsNaN reports whether the text view is not a valid number.
func (m Message) IsNaN() bool {
	return math.IsNaN(m.Float())
}

// Timestamp returns when the message was created.
func (m Message) Timestamp() time.Time {
	return m.timestamp
}

func (m Message) String() string {
	return m.text
}

// Equal reports whether both messages carry the same text. Timestamps are not
// compared.
func (m Message) Equal(other Message) bool {
	return m.text == other.text
}

func (m Message) MarshalJSON() ([]byte, error) {
	result := []byte(`{}`)
	result, err := sjson.SetBytes(result, "text", m.text)
	if err != nil {
		return nil, err
	}
	if !m.IsNaN() && !math.IsInf(m.value, 0) {
		result, err = sjson.SetBytes(result, "value", m.value)
		if err != nil {
			return nil, err
		}
	}
	if !m.timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", strfmt.DateTime(m.timestamp).String())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid message json")
	}

	text := gjson.GetBytes(data, "text")
	if !text.Exists() {
		return fmt.Errorf("message json is missing text")
	}
	msg := New(text.String())

	if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
		parsed, err := strfmt.ParseDateTime(ts.String())
		if err != nil {
			return fmt.Errorf("invalid message timestamp: %w", err)
		}
		msg.timestamp = time.Time(parsed)
	}

	*m = msg
	return nil
}
