package slogx

import (
	"fmt"
	"log/slog"
)

const (
	// KeyLoggerName is the key for the component that produced a record.
	KeyLoggerName = "logger"
	// KeyTopic is the key for topic names.
	KeyTopic = "topic"
	// KeyAgent is the key for agent names.
	KeyAgent = "agent"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Panic returns an attribute describing a recovered panic value.
func Panic(recovered any) slog.Attr {
	return slog.String("panic", fmt.Sprint(recovered))
}

// Stringer creates a slog.Attr with the provided key and the string representation
// of the given fmt.Stringer value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// LoggerName creates a slog.Attr with the provided logger name.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// Topic tags a record with a topic name.
func Topic(name string) slog.Attr {
	return slog.String(KeyTopic, name)
}

// Agent tags a record with an agent name.
func Agent(name string) slog.Attr {
	return slog.String(KeyAgent, name)
}
