package message

import (
	"bytes"

	"github.com/andrei-cloud/go_arqc/internal/errorcodes"
)

// Field names shared by the command parsers.
const (
	FieldIMK         = "IMK"
	FieldPAN         = "PAN"
	FieldPSN         = "PSN"
	FieldAmount      = "Amount Authorised"
	FieldAmountOther = "Amount Other"
	FieldCountry     = "Terminal Country Code"
	FieldTVR         = "TVR"
	FieldCurrency    = "Transaction Currency Code"
	FieldDate        = "Transaction Date"
	FieldType        = "Transaction Type"
	FieldUN          = "Unpredictable Number"
	FieldAIP         = "AIP"
	FieldATC         = "ATC"
	FieldIAD         = "IAD"
	FieldICCData     = "ICC Data"
	FieldARQC        = "ARQC"
)

// Separator delimits payload fields.
const Separator = ';'

var (
	gaFields = []string{
		FieldIMK, FieldPAN, FieldPSN, FieldAmount, FieldAmountOther, FieldCountry, FieldTVR,
		FieldCurrency, FieldDate, FieldType, FieldUN, FieldAIP, FieldATC, FieldIAD,
	}
	gcFields = []string{FieldIMK, FieldPAN, FieldPSN, FieldATC, FieldUN, FieldIAD}
	geFields = []string{FieldIMK, FieldICCData, FieldARQC}
)

// NewGA parses a GA Generate ARQC command from payload data.
func NewGA(data []byte) (*BaseMessage, error) {
	return parse(NewBaseMessage("GA", "Generate an ARQC"), gaFields, data)
}

// NewGC parses a GC Derive Session Key command from payload data.
// The unpredictable number may be left empty.
func NewGC(data []byte) (*BaseMessage, error) {
	return parse(NewBaseMessage("GC", "Derive a session key"), gcFields, data)
}

// NewGE parses a GE Verify ARQC command from payload data.
func NewGE(data []byte) (*BaseMessage, error) {
	return parse(NewBaseMessage("GE", "Verify an ARQC from ICC data"), geFields, data)
}

func parse(m *BaseMessage, names []string, data []byte) (*BaseMessage, error) {
	parts := bytes.Split(data, []byte{Separator})
	if len(parts) != len(names) {
		return nil, errorcodes.Err15
	}
	for i, name := range names {
		m.Fields[name] = parts[i]
	}

	return m, nil
}
