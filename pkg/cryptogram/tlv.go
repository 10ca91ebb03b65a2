package cryptogram

import (
	"fmt"
	"strings"

	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/skythen/bertlv"
)

// EMV tags read from ICC data.
var (
	tagPAN                   = bertlv.NewOneByteTag(0x5A)
	tagPANSequenceNumber     = bertlv.NewTwoByteTag(0x5F, 0x34)
	tagAmountAuthorised      = bertlv.NewTwoByteTag(0x9F, 0x02)
	tagAmountOther           = bertlv.NewTwoByteTag(0x9F, 0x03)
	tagTerminalCountryCode   = bertlv.NewTwoByteTag(0x9F, 0x1A)
	tagTVR                   = bertlv.NewOneByteTag(0x95)
	tagCurrencyCode          = bertlv.NewTwoByteTag(0x5F, 0x2A)
	tagTransactionDate       = bertlv.NewOneByteTag(0x9A)
	tagTransactionType       = bertlv.NewOneByteTag(0x9C)
	tagUnpredictableNumber   = bertlv.NewTwoByteTag(0x9F, 0x37)
	tagAIP                   = bertlv.NewOneByteTag(0x82)
	tagATC                   = bertlv.NewTwoByteTag(0x9F, 0x36)
	tagIssuerAppData         = bertlv.NewTwoByteTag(0x9F, 0x10)
	tagApplicationCryptogram = bertlv.NewTwoByteTag(0x9F, 0x26)
)

// CardData is the content of an ICC data block (DE55 style TLV list).
type CardData struct {
	Pan               string
	PanSequenceNumber string
	Transaction       Transaction
	// ARQC is the cryptogram sent by the card, empty when tag 9F26 is absent.
	ARQC string
}

// TransactionFromTLV decodes hex encoded BER-TLV ICC data into card and transaction fields.
// Every tag covered by the cryptogram is mandatory; PAN sequence number defaults to 00.
func TransactionFromTLV(data string) (CardData, error) {
	raw, err := cryptoutils.Str2Raw("icc data", strings.TrimSpace(data))
	if err != nil {
		return CardData{}, err
	}
	tlvs, err := bertlv.Parse(raw)
	if err != nil {
		return CardData{}, &FieldError{Field: "icc data", Value: err.Error()}
	}

	r := tlvReader{tlvs: tlvs}
	date := r.required(tagTransactionDate, "9A")
	card := CardData{
		Pan:               strings.TrimRight(r.required(tagPAN, "5A"), "F"),
		PanSequenceNumber: r.optional(tagPANSequenceNumber, "00"),
		Transaction: Transaction{
			AmountAuthorised:              r.required(tagAmountAuthorised, "9F02"),
			AmountOther:                   r.optional(tagAmountOther, "0"),
			TerminalCountryCode:           r.required(tagTerminalCountryCode, "9F1A"),
			TerminalVerificationResults:   r.required(tagTVR, "95"),
			TransactionCurrencyCode:       r.required(tagCurrencyCode, "5F2A"),
			TransactionType:               r.required(tagTransactionType, "9C"),
			UnpredictableNumber:           r.required(tagUnpredictableNumber, "9F37"),
			ApplicationInterchangeProfile: r.required(tagAIP, "82"),
			ApplicationTransactionCounter: r.required(tagATC, "9F36"),
			IssuerApplicationData:         r.required(tagIssuerAppData, "9F10"),
		},
		ARQC: r.optional(tagApplicationCryptogram, ""),
	}
	if r.missing != nil {
		return CardData{}, &FieldError{Field: "icc data", Value: "missing tags " + strings.Join(r.missing, ",")}
	}
	if len(date) != dateLength {
		return CardData{}, &FieldError{Field: "9A", Value: date}
	}
	card.Transaction.TransactionDate = fmt.Sprintf("20%s-%s-%s", date[:2], date[2:4], date[4:])

	return card, nil
}

type tlvReader struct {
	tlvs    bertlv.BerTLVs
	missing []string
}

func (r *tlvReader) required(tag bertlv.BerTag, name string) string {
	tlv := r.tlvs.FindFirstWithTag(tag)
	if tlv == nil {
		r.missing = append(r.missing, name)
		return ""
	}

	return cryptoutils.Raw2Str(tlv.Value)
}

func (r *tlvReader) optional(tag bertlv.BerTag, fallback string) string {
	tlv := r.tlvs.FindFirstWithTag(tag)
	if tlv == nil {
		return fallback
	}

	return cryptoutils.Raw2Str(tlv.Value)
}
