package enum

// DTEType is the Ministerio de Hacienda code of an electronic tax document
type DTEType string

const (
	DTEInvoice          DTEType = "01"
	DTETaxCreditReceipt DTEType = "03"
	DTECreditNote       DTEType = "05"
	DTEExportInvoice    DTEType = "11"
	DTEExcludedSubject  DTEType = "14"
)

// RequiresRecipientNIT reports whether the recipient is identified by NIT
// rather than a personal document number.
func (t DTEType) RequiresRecipientNIT() bool {
	return t == DTETaxCreditReceipt
}

// DTEEnvironment tells test documents apart from production ones.
type DTEEnvironment string

const (
	DTEEnvironmentTest       DTEEnvironment = "00"
	DTEEnvironmentProduction DTEEnvironment = "01"
)

func (e DTEEnvironment) IsTest() bool {
	return e == DTEEnvironmentTest
}

// PlaceholderItemCode marks document lines that carry no sale, such as the
// gratuity line, and are not printed.
const PlaceholderItemCode = "0000"
