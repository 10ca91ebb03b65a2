package service

import (
	"regexp"
	"strings"

	"github.com/andrei-cloud/go_arqc/internal/errorcodes"
	"github.com/andrei-cloud/go_arqc/pkg/cryptogram"
)

var (
	panPattern      = regexp.MustCompile(`^\d{16}$`)
	psnPattern      = regexp.MustCompile(`^\d{1,2}$`)
	tdeaKeyPattern  = regexp.MustCompile(`^[\da-fA-F]{16}(?:[\da-fA-F]{16}){0,2}$`)
	amountPattern   = regexp.MustCompile(`^\d{1,12}$`)
	isoCodePattern  = regexp.MustCompile(`^\d{3}$`)
	tvrPattern      = regexp.MustCompile(`^[\da-fA-F]{10}$`)
	datePattern     = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	typePattern     = regexp.MustCompile(`^[\da-fA-F]{2}$`)
	unPattern       = regexp.MustCompile(`^[\da-fA-F]{8}$`)
	aipPattern      = regexp.MustCompile(`^[\da-fA-F]{4}$`)
	atcPattern      = regexp.MustCompile(`^[\da-fA-F]{1,4}$`)
	iadPattern      = regexp.MustCompile(`^[\da-fA-F]{14}(?:[\da-fA-F]{2}){0,25}$`)
	cryptogramRegex = regexp.MustCompile(`^[\da-fA-F]{16}$`)
)

// FieldViolation names a request field and why it was rejected.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError lists every rejected field of a request.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}

	return "invalid request: " + strings.Join(msgs, "; ")
}

// Unwrap maps validation failures to the invalid input code.
func (e *ValidationError) Unwrap() error {
	return errorcodes.Err15
}

type rule struct {
	field   string
	value   string
	pattern *regexp.Regexp
	message string
}

func validate(rules []rule) error {
	var violations []FieldViolation
	for _, r := range rules {
		if !r.pattern.MatchString(r.value) {
			violations = append(violations, FieldViolation{Field: r.field, Message: r.message})
		}
	}
	if violations != nil {
		return &ValidationError{Violations: violations}
	}

	return nil
}

// GenerateACRequest carries the card, key and transaction data of a cryptogram request.
type GenerateACRequest struct {
	Pan                           string `json:"Pan"`
	PanSequenceNumber             string `json:"PanSequenceNumber"`
	IssuerMasterKey               string `json:"IssuerMasterKey"`
	AmountAuthorised              string `json:"AmountAuthorised"`
	AmountOther                   string `json:"AmountOther"`
	TerminalCountryCode           string `json:"TerminalCountryCode"`
	TerminalVerificationResults   string `json:"TerminalVerificationResults"`
	TransactionCurrencyCode       string `json:"TransactionCurrencyCode"`
	TransactionDate               string `json:"TransactionDate"`
	TransactionType               string `json:"TransactionType"`
	UnpredictableNumber           string `json:"UnpredictableNumber"`
	ApplicationInterchangeProfile string `json:"ApplicationInterchangeProfile"`
	ApplicationTransactionCounter string `json:"ApplicationTransactionCounter"`
	IssuerApplicationData         string `json:"IssuerApplicationData"`
}

// Validate checks every field against its format and reports all violations at once.
func (r GenerateACRequest) Validate() error {
	return validate([]rule{
		{"Pan", r.Pan, panPattern, "Pan must be numeric, and exactly 16 digits long."},
		{"PanSequenceNumber", r.PanSequenceNumber, psnPattern, "PanSequenceNumber must be numeric, and 1 to 2 digits long."},
		{
			"IssuerMasterKey", r.IssuerMasterKey, tdeaKeyPattern,
			"IssuerMasterKey must be a single, double or triple length TDEA key, comprised of hexadecimal digits only.",
		},
		{"AmountAuthorised", r.AmountAuthorised, amountPattern, "AmountAuthorised must be numeric, and 1 to 12 digits long."},
		{"AmountOther", r.AmountOther, amountPattern, "AmountOther must be numeric, and 1 to 12 digits long."},
		{"TerminalCountryCode", r.TerminalCountryCode, isoCodePattern, "TerminalCountryCode must be an ISO 3166-1 numeric code."},
		{
			"TerminalVerificationResults", r.TerminalVerificationResults, tvrPattern,
			"TerminalVerificationResults must be exactly 10 hexadecimal digits.",
		},
		{"TransactionCurrencyCode", r.TransactionCurrencyCode, isoCodePattern, "TransactionCurrencyCode must be an ISO 4217 numeric code."},
		{"TransactionDate", r.TransactionDate, datePattern, "TransactionDate must be in ISO Date Format (YYYY-MM-DD)."},
		{"TransactionType", r.TransactionType, typePattern, "TransactionType must be exactly 2 hexadecimal digits."},
		{"UnpredictableNumber", r.UnpredictableNumber, unPattern, "UnpredictableNumber must be exactly 8 hexadecimal digits."},
		{
			"ApplicationInterchangeProfile", r.ApplicationInterchangeProfile, aipPattern,
			"ApplicationInterchangeProfile must be exactly 4 hexadecimal digits.",
		},
		{
			"ApplicationTransactionCounter", r.ApplicationTransactionCounter, atcPattern,
			"ApplicationTransactionCounter must be between 1 to 4 hexadecimal digits long.",
		},
		{
			"IssuerApplicationData", r.IssuerApplicationData, iadPattern,
			"IssuerApplicationData must be 14 to 64 hexadecimal digits of even length.",
		},
	})
}

// Transaction returns the cryptogram input of the request.
func (r GenerateACRequest) Transaction() cryptogram.Transaction {
	return cryptogram.Transaction{
		AmountAuthorised:              r.AmountAuthorised,
		AmountOther:                   r.AmountOther,
		TerminalCountryCode:           r.TerminalCountryCode,
		TerminalVerificationResults:   r.TerminalVerificationResults,
		TransactionCurrencyCode:       r.TransactionCurrencyCode,
		TransactionDate:               r.TransactionDate,
		TransactionType:               r.TransactionType,
		UnpredictableNumber:           r.UnpredictableNumber,
		ApplicationInterchangeProfile: r.ApplicationInterchangeProfile,
		ApplicationTransactionCounter: r.ApplicationTransactionCounter,
		IssuerApplicationData:         r.IssuerApplicationData,
	}
}

// VerifyACRequest is a cryptogram request together with the cryptogram to check.
type VerifyACRequest struct {
	GenerateACRequest
	ARQC string `json:"ARQC"`
}

// Validate checks the embedded request and the cryptogram.
func (r VerifyACRequest) Validate() error {
	err := r.GenerateACRequest.Validate()
	arqcErr := validate([]rule{
		{"ARQC", r.ARQC, cryptogramRegex, "ARQC must be exactly 16 hexadecimal digits."},
	})
	if arqcErr == nil {
		return err
	}

	var violations []FieldViolation
	if err != nil {
		violations = err.(*ValidationError).Violations
	}
	violations = append(violations, arqcErr.(*ValidationError).Violations...)

	return &ValidationError{Violations: violations}
}

// KeyRequest carries the inputs of a session key derivation.
type KeyRequest struct {
	IssuerMasterKey               string `json:"IssuerMasterKey"`
	Pan                           string `json:"Pan"`
	PanSequenceNumber             string `json:"PanSequenceNumber"`
	ApplicationTransactionCounter string `json:"ApplicationTransactionCounter"`
	UnpredictableNumber           string `json:"UnpredictableNumber"`
	IssuerApplicationData         string `json:"IssuerApplicationData"`
}

// Validate checks the key request fields. The unpredictable number is only required by
// the Mastercard proprietary derivation and may be empty otherwise.
func (r KeyRequest) Validate() error {
	rules := []rule{
		{"Pan", r.Pan, panPattern, "Pan must be numeric, and exactly 16 digits long."},
		{"PanSequenceNumber", r.PanSequenceNumber, psnPattern, "PanSequenceNumber must be numeric, and 1 to 2 digits long."},
		{
			"IssuerMasterKey", r.IssuerMasterKey, tdeaKeyPattern,
			"IssuerMasterKey must be a single, double or triple length TDEA key, comprised of hexadecimal digits only.",
		},
		{
			"ApplicationTransactionCounter", r.ApplicationTransactionCounter, atcPattern,
			"ApplicationTransactionCounter must be between 1 to 4 hexadecimal digits long.",
		},
		{
			"IssuerApplicationData", r.IssuerApplicationData, iadPattern,
			"IssuerApplicationData must be 14 to 64 hexadecimal digits of even length.",
		},
	}
	if r.UnpredictableNumber != "" {
		rules = append(rules, rule{
			"UnpredictableNumber", r.UnpredictableNumber, unPattern,
			"UnpredictableNumber must be exactly 8 hexadecimal digits.",
		})
	}

	return validate(rules)
}
