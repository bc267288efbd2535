package ideal

import (
	"github.com/beevik/etree"
)

// responseKinds maps reply root elements to response variants. Any other
// root is unrecognized.
var responseKinds = map[string]ResponseKind{
	string(ErrorRes):       ErrorRes,
	string(DirectoryRes):   DirectoryRes,
	string(TransactionRes): TransactionRes,
	string(StatusRes):      StatusRes,
}

// ResolveKind maps a root element local name to its response variant.
func ResolveKind(root string) (ResponseKind, bool) {
	kind, ok := responseKinds[root]
	return kind, ok
}

// dispatch turns a reply body into a typed response and applies the
// post-receipt policy: signature first, then the business outcome.
func (c *Client) dispatch(req Request, body []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, newError(KindMalformedResponse, err, "parse reply")
	}
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	root := doc.Root()

	kind, ok := ResolveKind(root.Tag)
	if !ok {
		return nil, newError(KindUnrecognizedResponse, nil, "root element %q", root.Tag)
	}
	c.log.Debug().Str("kind", string(kind)).Msg("ideal: reply received")

	resp := &Response{
		kind:     kind,
		doc:      doc,
		request:  req,
		verifier: c.verifier,
		cert:     c.merchant.AcquirerCertificate,
		skip:     c.cfg.DisableVerification,
	}

	if !c.cfg.DisableAutoVerify {
		if err := resp.Verify(); err != nil {
			c.log.Warn().Err(err).Str("kind", string(kind)).Msg("ideal: reply signature rejected")
			return nil, err
		}
	}

	switch kind {
	case ErrorRes:
		return nil, &ResponseError{&ErrorResponse{resp}}
	case StatusRes:
		if c.cfg.FailOnNonSuccess {
			status := &StatusResponse{resp}
			s, err := status.Status()
			if err != nil {
				return nil, err
			}
			if s != StatusSuccess {
				return nil, &NoSuccessError{status}
			}
		}
	}
	return resp, nil
}

// checkDocument enforces document-level well-formedness, which the etree
// reader does not: exactly one root element, no text outside it and no
// undeclared root prefix.
func checkDocument(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if !t.IsWhitespace() {
				return newError(KindMalformedResponse, nil, "text outside the root element")
			}
		}
	}
	switch {
	case roots == 0:
		return newError(KindMalformedResponse, nil, "reply has no root element")
	case roots > 1:
		return newError(KindMalformedResponse, nil, "reply has %d root elements", roots)
	}
	if root := doc.Root(); root.Space != "" && root.NamespaceURI() == "" {
		return newError(KindMalformedResponse, nil, "undeclared namespace prefix %q", root.Space)
	}
	return nil
}
