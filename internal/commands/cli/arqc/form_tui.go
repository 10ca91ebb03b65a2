package arqc

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andrei-cloud/go_arqc/internal/logging"
	"github.com/andrei-cloud/go_arqc/internal/service"
)

type fieldConfig struct {
	name        string
	description string
	value       string
	maxLength   int
	hex         bool // upper cases input and accepts 0-9, A-F only.
	secret      bool // masked in the completed fields summary.
}

type transactionFormModel struct {
	currentField int
	fields       []fieldConfig
	done         bool
	cancelled    bool
}

// newTransactionFormModel creates a new TUI model prefilled with req.
func newTransactionFormModel(req service.GenerateACRequest) transactionFormModel {
	fields := []fieldConfig{
		{name: "IssuerMasterKey", description: "Issuer Master Key (AC)", value: req.IssuerMasterKey, maxLength: 48, hex: true, secret: true},
		{name: "Pan", description: "Primary Account Number", value: req.Pan, maxLength: 16},
		{name: "PanSequenceNumber", description: "PAN Sequence Number", value: req.PanSequenceNumber, maxLength: 2},
		{name: "AmountAuthorised", description: "Amount, Authorised (9F02)", value: req.AmountAuthorised, maxLength: 12},
		{name: "AmountOther", description: "Amount, Other (9F03)", value: req.AmountOther, maxLength: 12},
		{name: "TerminalCountryCode", description: "Terminal Country Code (9F1A)", value: req.TerminalCountryCode, maxLength: 3},
		{
			name: "TerminalVerificationResults", description: "Terminal Verification Results (95)",
			value: req.TerminalVerificationResults, maxLength: 10, hex: true,
		},
		{
			name: "TransactionCurrencyCode", description: "Transaction Currency Code (5F2A)",
			value: req.TransactionCurrencyCode, maxLength: 3,
		},
		{name: "TransactionDate", description: "Transaction Date (YYYY-MM-DD)", value: req.TransactionDate, maxLength: 10},
		{name: "TransactionType", description: "Transaction Type (9C)", value: req.TransactionType, maxLength: 2, hex: true},
		{name: "UnpredictableNumber", description: "Unpredictable Number (9F37)", value: req.UnpredictableNumber, maxLength: 8, hex: true},
		{
			name: "ApplicationInterchangeProfile", description: "Application Interchange Profile (82)",
			value: req.ApplicationInterchangeProfile, maxLength: 4, hex: true,
		},
		{
			name: "ApplicationTransactionCounter", description: "Application Transaction Counter (9F36)",
			value: req.ApplicationTransactionCounter, maxLength: 4, hex: true,
		},
		{
			name: "IssuerApplicationData", description: "Issuer Application Data (9F10)",
			value: req.IssuerApplicationData, maxLength: 64, hex: true,
		},
	}

	return transactionFormModel{fields: fields}
}

// Init initializes the model.
func (m transactionFormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m transactionFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true

		return m, tea.Quit
	case "enter":
		if m.currentField >= len(m.fields)-1 {
			m.done = true

			return m, tea.Quit
		}
		m.currentField++
	case "tab", "down":
		if m.currentField < len(m.fields)-1 {
			m.currentField++
		}
	case "shift+tab", "up":
		if m.currentField > 0 {
			m.currentField--
		}
	case "backspace":
		m.handleBackspace()
	default:
		if keyMsg.Type == tea.KeyRunes {
			for _, r := range keyMsg.Runes {
				m.handleInput(r)
			}
		}
	}

	return m, nil
}

// handleInput appends an accepted character to the current field.
func (m *transactionFormModel) handleInput(r rune) {
	field := &m.fields[m.currentField]
	if len(field.value) >= field.maxLength {
		return
	}

	if field.hex {
		r = []rune(strings.ToUpper(string(r)))[0]
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return
		}
	} else if !strings.ContainsRune("0123456789-", r) {
		return
	}
	field.value += string(r)
}

// handleBackspace removes the last character of the current field.
func (m *transactionFormModel) handleBackspace() {
	field := &m.fields[m.currentField]
	if field.value != "" {
		field.value = field.value[:len(field.value)-1]
	}
}

// request returns the entered values as a generation request.
func (m transactionFormModel) request() service.GenerateACRequest {
	values := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		values[f.name] = f.value
	}

	return service.GenerateACRequest{
		IssuerMasterKey:               values["IssuerMasterKey"],
		Pan:                           values["Pan"],
		PanSequenceNumber:             values["PanSequenceNumber"],
		AmountAuthorised:              values["AmountAuthorised"],
		AmountOther:                   values["AmountOther"],
		TerminalCountryCode:           values["TerminalCountryCode"],
		TerminalVerificationResults:   values["TerminalVerificationResults"],
		TransactionCurrencyCode:       values["TransactionCurrencyCode"],
		TransactionDate:               values["TransactionDate"],
		TransactionType:               values["TransactionType"],
		UnpredictableNumber:           values["UnpredictableNumber"],
		ApplicationInterchangeProfile: values["ApplicationInterchangeProfile"],
		ApplicationTransactionCounter: values["ApplicationTransactionCounter"],
		IssuerApplicationData:         values["IssuerApplicationData"],
	}
}

// View renders the current state of the model.
func (m transactionFormModel) View() string {
	if m.done {
		return "Transaction data entered.\n"
	}

	if m.cancelled {
		return "Operation cancelled.\n"
	}

	s := "Enter Transaction Data\n"
	s += strings.Repeat("=", 50) + "\n\n"

	// Show progress.
	s += fmt.Sprintf("Field %d of %d\n\n", m.currentField+1, len(m.fields))

	currentField := m.fields[m.currentField]
	s += fmt.Sprintf("▶ %s: %s\n\n", currentField.name, currentField.description)
	s += fmt.Sprintf("  [ %s ] (%d/%d)\n\n", currentField.value, len(currentField.value), currentField.maxLength)

	// Show summary of completed fields.
	if m.currentField > 0 {
		s += "Completed fields:\n"
		for i := 0; i < m.currentField; i++ {
			field := m.fields[i]
			value := field.value
			if field.secret {
				value = logging.Redact(value)
			}
			s += fmt.Sprintf("  %s: %s\n", field.name, value)
		}
		s += "\n"
	}

	s += "Navigation:\n"
	s += "  Tab/Shift+Tab or ↑/↓: Next/Previous field\n"
	s += "  Enter: Confirm and continue\n"
	s += "  Backspace: Delete character\n"
	s += "  Esc or Ctrl+C: Quit\n"

	return s
}

// runTransactionForm starts the interactive TUI prefilled with req.
func runTransactionForm(req service.GenerateACRequest) (service.GenerateACRequest, bool, error) {
	model := newTransactionFormModel(req)

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return service.GenerateACRequest{}, false, err
	}

	m := finalModel.(transactionFormModel)

	return m.request(), !m.cancelled, nil
}
