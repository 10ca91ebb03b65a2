package logic

import (
	"context"

	"github.com/andrei-cloud/go_arqc/internal/errorcodes"
	"github.com/andrei-cloud/go_arqc/internal/message"
	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/andrei-cloud/go_arqc/pkg/cryptogram"
)

// ExecuteGA generates the ARQC of a transaction. Response data is the 16 hex character ARQC.
func ExecuteGA(ctx context.Context, input []byte) ([]byte, error) {
	m, err := message.NewGA(input)
	if err != nil {
		logger(ctx).Error().Msg("GA: wrong number of fields")
		return nil, err
	}
	logger(ctx).Debug().Msg(m.Trace())

	resp, err := service.GenerateAC(ctx, service.GenerateACRequest{
		IssuerMasterKey:               m.String(message.FieldIMK),
		Pan:                           m.String(message.FieldPAN),
		PanSequenceNumber:             m.String(message.FieldPSN),
		AmountAuthorised:              m.String(message.FieldAmount),
		AmountOther:                   m.String(message.FieldAmountOther),
		TerminalCountryCode:           m.String(message.FieldCountry),
		TerminalVerificationResults:   m.String(message.FieldTVR),
		TransactionCurrencyCode:       m.String(message.FieldCurrency),
		TransactionDate:               m.String(message.FieldDate),
		TransactionType:               m.String(message.FieldType),
		UnpredictableNumber:           m.String(message.FieldUN),
		ApplicationInterchangeProfile: m.String(message.FieldAIP),
		ApplicationTransactionCounter: m.String(message.FieldATC),
		IssuerApplicationData:         m.String(message.FieldIAD),
	})
	if err != nil {
		return nil, err
	}

	return []byte(resp.ARQC), nil
}

// ExecuteGC derives the session key of a transaction.
// Response data is the session key followed by its 6 character check value.
func ExecuteGC(ctx context.Context, input []byte) ([]byte, error) {
	m, err := message.NewGC(input)
	if err != nil {
		logger(ctx).Error().Msg("GC: wrong number of fields")
		return nil, err
	}
	logger(ctx).Debug().Msg(m.Trace())

	resp, err := service.DeriveKeys(ctx, service.KeyRequest{
		IssuerMasterKey:               m.String(message.FieldIMK),
		Pan:                           m.String(message.FieldPAN),
		PanSequenceNumber:             m.String(message.FieldPSN),
		ApplicationTransactionCounter: m.String(message.FieldATC),
		UnpredictableNumber:           m.String(message.FieldUN),
		IssuerApplicationData:         m.String(message.FieldIAD),
	})
	if err != nil {
		return nil, err
	}

	return []byte(resp.SessionKey + resp.SessionKeyKCV), nil
}

// ExecuteGE verifies the ARQC of hex encoded ICC data. An empty ARQC field selects the
// cryptogram of tag 9F26. A mismatch is reported as Err01.
func ExecuteGE(ctx context.Context, input []byte) ([]byte, error) {
	m, err := message.NewGE(input)
	if err != nil {
		logger(ctx).Error().Msg("GE: wrong number of fields")
		return nil, err
	}
	logger(ctx).Debug().Msg(m.Trace())

	card, err := cryptogram.TransactionFromTLV(m.String(message.FieldICCData))
	if err != nil {
		return nil, err
	}
	if arqc := m.String(message.FieldARQC); arqc != "" {
		card.ARQC = arqc
	}

	resp, err := service.VerifyAC(ctx, service.RequestFromCard(m.String(message.FieldIMK), card))
	if err != nil {
		return nil, err
	}
	if !resp.Match {
		return nil, errorcodes.Err01
	}

	return nil, nil
}

// ExecuteNC returns the firmware version.
func ExecuteNC(ctx context.Context, input []byte) ([]byte, error) {
	if len(input) != 0 {
		logger(ctx).Debug().Int("length", len(input)).Msg("NC: ignoring payload")
	}

	return []byte(Firmware), nil
}
