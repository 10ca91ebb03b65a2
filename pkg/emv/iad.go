package emv

import "strings"

// Field names of a parsed IAD.
const (
	FieldLength        = "Length"
	FieldDKI           = "DKI"
	FieldCVN           = "CVN"
	FieldCVR           = "CVR"
	FieldIddLength     = "IddLength"
	FieldIddOptionID   = "IddOptionId"
	FieldIDD           = "IDD"
	FieldIADFormat     = "IADFormat"
	FieldDAC           = "DAC"
	FieldCounters      = "Counters"
	FieldLastOnlineATC = "LastOnlineATC"
)

// rest marks a field that consumes the remainder of the IAD.
const rest = -1

type fieldSpec struct {
	name     string
	length   int
	required bool
}

type layoutKey struct {
	scheme PaymentScheme
	format string
}

// Visa formats are keyed by the leading length byte, Mastercard by the CVR width.
const (
	visaFormat013      = "06"
	visaFormat2        = "1F"
	mastercardShortCVR = "cvr8"
	mastercardLongCVR  = "cvr12"
)

// Mastercard counters widths.
const (
	mastercardPlainCounters     = 16
	mastercardEncryptedCounters = 32
)

// layouts holds the field order and widths, in hex characters, per scheme and format.
// The Mastercard Counters width depends on the IAD length and is resolved at parse time.
var layouts = map[layoutKey][]fieldSpec{
	{Visa, visaFormat013}: {
		{FieldLength, 2, true},
		{FieldDKI, 2, true},
		{FieldCVN, 2, true},
		{FieldCVR, 8, true},
		{FieldIddLength, 2, false},
		{FieldIddOptionID, 2, false},
		{FieldIDD, rest, false},
	},
	{Visa, visaFormat2}: {
		{FieldLength, 2, true},
		{FieldCVN, 2, true},
		{FieldDKI, 2, true},
		{FieldCVR, 10, true},
		{FieldIddOptionID, 2, false},
		{FieldIDD, rest, false},
	},
	{Mastercard, mastercardShortCVR}: {
		{FieldDKI, 2, true},
		{FieldCVN, 2, true},
		{FieldCVR, 8, true},
		{FieldDAC, 4, true},
		{FieldCounters, mastercardPlainCounters, true},
		{FieldLastOnlineATC, 4, true},
	},
	{Mastercard, mastercardLongCVR}: {
		{FieldDKI, 2, true},
		{FieldCVN, 2, true},
		{FieldCVR, 12, true},
		{FieldDAC, 4, true},
		{FieldCounters, mastercardPlainCounters, true},
		{FieldLastOnlineATC, 4, true},
	},
}

// field is one named value of a parsed IAD.
type field struct {
	name  string
	value string
}

// ParsedIAD is the immutable result of parsing an IAD. Field order follows the IAD layout,
// derived fields are appended after the extracted ones.
type ParsedIAD struct {
	scheme PaymentScheme
	raw    string
	cvn    CVN
	skd    SessionKeyDerivationMethod
	fields []field
}

// Scheme returns the scheme whose layout was used to parse the IAD.
func (p ParsedIAD) Scheme() PaymentScheme { return p.scheme }

// Raw returns the normalized (uppercase) IAD.
func (p ParsedIAD) Raw() string { return p.raw }

// CVN returns the generic CVN.
func (p ParsedIAD) CVN() CVN { return p.cvn }

// SKDMethod returns the session key derivation method. Only Mastercard IADs carry one.
func (p ParsedIAD) SKDMethod() SessionKeyDerivationMethod { return p.skd }

// CVR returns the Card Verification Results field.
func (p ParsedIAD) CVR() string {
	v, _ := p.Get(FieldCVR)
	return v
}

// DKI returns the Derivation Key Index field.
func (p ParsedIAD) DKI() string {
	v, _ := p.Get(FieldDKI)
	return v
}

// Get returns a field value and whether it was present in the IAD.
func (p ParsedIAD) Get(name string) (string, bool) {
	for _, f := range p.fields {
		if f.name == name {
			return f.value, true
		}
	}

	return "", false
}

// Names returns the field names in layout order.
func (p ParsedIAD) Names() []string {
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.name
	}

	return names
}

// Fields returns a copy of the fields as a map.
func (p ParsedIAD) Fields() map[string]string {
	m := make(map[string]string, len(p.fields))
	for _, f := range p.fields {
		m[f.name] = f.value
	}

	return m
}

// extract walks a layout over iad. Optional fields past the end of the input are left out;
// a missing required field is reported by name.
func extract(iad string, layout []fieldSpec) ([]field, string) {
	fields := make([]field, 0, len(layout)+1)
	index := 0
	for _, spec := range layout {
		remaining := len(iad) - index
		n := spec.length
		if n == rest {
			n = remaining
		}
		if remaining <= 0 || n > remaining {
			if spec.required {
				return nil, spec.name
			}
			break
		}
		fields = append(fields, field{spec.name, iad[index : index+n]})
		index += n
	}

	return fields, ""
}

// set replaces the value of an existing field or appends a new one.
func set(fields []field, name, value string) []field {
	for i := range fields {
		if fields[i].name == name {
			fields[i].value = value
			return fields
		}
	}

	return append(fields, field{name, value})
}

func lookup(fields []field, name string) string {
	for _, f := range fields {
		if f.name == name {
			return f.value
		}
	}

	return ""
}

func normalize(iad string) string {
	return strings.ToUpper(strings.TrimSpace(iad))
}
