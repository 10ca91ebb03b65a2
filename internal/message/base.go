// Package message parses the semicolon delimited payloads of the command protocol.
package message

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/andrei-cloud/go_arqc/internal/logging"
)

// Message defines the interface for command messages.
type Message interface {
	Get(field string) []byte
	Set(field string, val []byte)
	CommandCode() string
	Trace() string
}

// BaseMessage implements Message and holds command fields.
type BaseMessage struct {
	cmdCode     string
	description string
	Fields      map[string][]byte
}

// NewBaseMessage creates a new BaseMessage with the given code and description.
func NewBaseMessage(cmdCode, description string) *BaseMessage {
	return &BaseMessage{cmdCode: cmdCode, description: description, Fields: make(map[string][]byte)}
}

func (m *BaseMessage) Get(field string) []byte {
	return m.Fields[field]
}

// String returns the field as text.
func (m *BaseMessage) String(field string) string {
	return string(m.Fields[field])
}

func (m *BaseMessage) Set(field string, val []byte) {
	m.Fields[field] = val
}

func (m *BaseMessage) CommandCode() string {
	return m.cmdCode
}

// Trace lists the fields in name order. Keys are redacted and the PAN is masked.
func (m *BaseMessage) Trace() string {
	names := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Command: %s (%s)\n", m.cmdCode, m.description))
	for _, k := range names {
		v := string(m.Fields[k])
		switch k {
		case FieldIMK:
			v = logging.Redact(v)
		case FieldPAN:
			v = logging.MaskPAN(v)
		}
		buf.WriteString(fmt.Sprintf("\t[%s]=%s\n", k, v))
	}

	return buf.String()
}
