// Package ideal implements the merchant side of the iDEAL acquirer protocol
// (merchant-acquirer messages, version 3.3.1).
//
// A Client builds Directory, Transaction and Status requests, signs them
// through an injected Signer, posts them to the acquirer and classifies the
// XML reply into one of four typed responses. Signature checks on replies go
// through an injected Verifier. Client and its requests and responses are not
// safe for concurrent use.
package ideal

// Protocol constants.
const (
	Version     = "3.3.1"
	Namespace   = "http://www.idealdesk.com/ideal/messages/mer-acq/3.3.1"
	ContentType = "text/xml; charset=utf-8"
)

// Supported currency and languages.
const (
	EUR     = "EUR"
	Dutch   = "nl"
	English = "en"
)

// Transaction status values reported by the acquirer.
const (
	StatusSuccess   = "Success"
	StatusCancelled = "Cancelled"
	StatusExpired   = "Expired"
	StatusFailure   = "Failure"
	StatusOpen      = "Open"
)

// DefaultExpiration is used when a transaction gets no explicit period.
const DefaultExpiration = "15 minutes"

// timestampLayout is UTC with millisecond precision and a literal Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"
