// Package eml normalises RFC 5322 email messages (.eml files) into a single
// record carrying the decoded headers, the text body and the attachment
// names.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/normalisers/html"
)

// MaxBodyChars bounds the body kept in the record.
const MaxBodyChars = 50_000

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EML (email) documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"message/rfc822",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise converts an EML document into one record.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := Parse(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, err
	}

	result := domain.NewExtractionResult(domain.SourceEmail, n.now())
	if chars := len([]rune(msg.Body)); chars > MaxBodyChars {
		msg.Body = domain.Truncate(msg.Body, MaxBodyChars)
		result.Warn("email body truncated to %d of %d characters", MaxBodyChars, chars)
	}

	rec := msg.ToRecord()
	if raw.URI != "" {
		rec.Set("file", raw.URI)
	}
	result.Add(rec)
	result.Finalize()
	return result, nil
}

// Message is the decoded content of one email.
type Message struct {
	Subject     string
	From        string
	To          string
	Cc          string
	Date        string
	Body        string
	Attachments []string
}

// ToRecord renders the message in a fixed field order.
func (m *Message) ToRecord() *domain.Record {
	attachments := make([]any, len(m.Attachments))
	for i, a := range m.Attachments {
		attachments[i] = a
	}
	return domain.RecordOf(
		"subject", m.Subject,
		"from", m.From,
		"to", m.To,
		"cc", m.Cc,
		"date", m.Date,
		"body", m.Body,
		"attachments", attachments,
	)
}

// Parse reads an RFC 5322 message. Plain text bodies are preferred over
// HTML; HTML-only bodies are converted to plain text.
func Parse(r io.Reader) (*Message, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not an email message: %v", domain.ErrInvalidInput, err)
	}

	m := &Message{
		Subject: decodeHeader(msg.Header.Get("Subject")),
		From:    decodeHeader(msg.Header.Get("From")),
		To:      decodeHeader(msg.Header.Get("To")),
		Cc:      decodeHeader(msg.Header.Get("Cc")),
		Date:    normaliseDate(msg.Header.Get("Date")),
	}

	var parts bodyParts
	if err := parts.collect(
		msg.Header.Get("Content-Type"),
		msg.Header.Get("Content-Transfer-Encoding"),
		"",
		msg.Body,
	); err != nil {
		return nil, err
	}

	m.Body = parts.body()
	m.Attachments = parts.attachments
	if m.Attachments == nil {
		m.Attachments = []string{}
	}
	return m, nil
}

// bodyParts accumulates the leaves of a MIME tree.
type bodyParts struct {
	text        []string
	html        []string
	attachments []string
}

func (p *bodyParts) body() string {
	if len(p.text) > 0 {
		return strings.TrimSpace(strings.Join(p.text, "\n"))
	}
	if len(p.html) > 0 {
		return html.ToPlainText(strings.Join(p.html, "\n"))
	}
	return ""
}

func (p *bodyParts) collect(contentType, encoding, disposition string, r io.Reader) error {
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if name := attachmentName(disposition, params); name != "" {
		p.attachments = append(p.attachments, name)
		return nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return nil
		}
		mr := multipart.NewReader(r, boundary)
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				// Malformed trailing parts keep what was read so far.
				return nil
			}
			err = p.collect(
				part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"),
				part.Header.Get("Content-Disposition"),
				part,
			)
			part.Close()
			if err != nil {
				return err
			}
		}
	}

	content, err := io.ReadAll(decodeTransfer(encoding, r))
	if err != nil {
		return fmt.Errorf("%w: reading %s part: %v", domain.ErrInvalidInput, mediaType, err)
	}

	switch mediaType {
	case "text/plain":
		p.text = append(p.text, string(content))
	case "text/html":
		p.html = append(p.html, string(content))
	}
	return nil
}

// attachmentName returns the file name of an attachment part, or "".
func attachmentName(disposition string, ctParams map[string]string) string {
	if disposition != "" {
		d, params, err := mime.ParseMediaType(disposition)
		if err == nil && d == "attachment" {
			if name := decodeHeader(params["filename"]); name != "" {
				return name
			}
			if name := decodeHeader(ctParams["name"]); name != "" {
				return name
			}
			return "(unnamed)"
		}
	}
	return ""
}

// decodeTransfer undoes the Content-Transfer-Encoding. multipart.Reader
// already decodes quoted-printable parts and removes the header.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	}
	return r
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header // Return original if decoding fails
	}
	return decoded
}

// normaliseDate renders a parseable Date header as RFC 3339.
func normaliseDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := mail.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format(time.RFC3339)
}
