package eml

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

func field(t *testing.T, rec *domain.Record, key string) any {
	t.Helper()
	v, ok := rec.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}

func normalise(t *testing.T, content string) *domain.ExtractionResult {
	t.Helper()
	raw := &domain.RawDocument{
		URI:      "/path/to/email.eml",
		MIMEType: "message/rfc822",
		Content:  []byte(content),
	}
	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	return result
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Equal(t, []string{"message/rfc822"}, normaliser.SupportedMIMETypes())
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_SimpleEmail(t *testing.T) {
	result := normalise(t, `From: sender@example.com
To: recipient@example.com
Cc: manager@example.com
Subject: Test Email Subject
Date: Mon, 01 Jan 2024 10:00:00 +0000
Content-Type: text/plain

This is the body of the email.
It has multiple lines.
`)

	assert.Equal(t, domain.SourceEmail, result.Metadata.Source)
	assert.Equal(t, 1, result.Metadata.RecordCount)

	rec := result.Records[0]
	assert.Equal(t,
		[]string{"subject", "from", "to", "cc", "date", "body", "attachments", "file"},
		rec.Keys())
	assert.Equal(t, "Test Email Subject", field(t, rec, "subject"))
	assert.Equal(t, "sender@example.com", field(t, rec, "from"))
	assert.Equal(t, "recipient@example.com", field(t, rec, "to"))
	assert.Equal(t, "manager@example.com", field(t, rec, "cc"))
	assert.Equal(t, "2024-01-01T10:00:00Z", field(t, rec, "date"))
	assert.Equal(t, "This is the body of the email.\nIt has multiple lines.", field(t, rec, "body"))
	assert.Equal(t, []any{}, field(t, rec, "attachments"))
}

func TestNormalise_HTMLBody(t *testing.T) {
	result := normalise(t, `From: sender@example.com
Subject: HTML Email
Content-Type: text/html

<p>Hello &amp; welcome</p><ul><li>one</li><li>two</li></ul>
`)

	body := field(t, result.Records[0], "body").(string)
	assert.Contains(t, body, "Hello & welcome")
	assert.Contains(t, body, "- one")
	assert.NotContains(t, body, "<p>")
}

func TestNormalise_MultipartAlternativePrefersPlainText(t *testing.T) {
	result := normalise(t, `From: sender@example.com
Subject: Multipart Email
Content-Type: multipart/alternative; boundary="boundary123"

--boundary123
Content-Type: text/plain

Plain text version of the email.
--boundary123
Content-Type: text/html

<html><body><p>HTML version</p></body></html>
--boundary123--
`)

	assert.Equal(t, "Plain text version of the email.", field(t, result.Records[0], "body"))
}

func TestNormalise_Attachments(t *testing.T) {
	result := normalise(t, `From: sender@example.com
Subject: Signed SOW
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: text/plain

See attached.
--outer
Content-Type: application/pdf; name="sow.pdf"
Content-Disposition: attachment; filename="sow.pdf"
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`)

	rec := result.Records[0]
	assert.Equal(t, "See attached.", field(t, rec, "body"))
	assert.Equal(t, []any{"sow.pdf"}, field(t, rec, "attachments"))
}

func TestNormalise_Base64Body(t *testing.T) {
	result := normalise(t, `From: sender@example.com
Subject: Encoded
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: base64

SGVsbG8g
V29ybGQ=
`)

	assert.Equal(t, "Hello World", field(t, result.Records[0], "body"))
}

func TestNormalise_EncodedSubject(t *testing.T) {
	result := normalise(t, `From: sender@example.com
Subject: =?UTF-8?B?SGVsbG8gV29ybGQ=?=
Content-Type: text/plain

Body content.
`)

	assert.Equal(t, "Hello World", field(t, result.Records[0], "subject"))
}

func TestNormalise_LongBodyTruncated(t *testing.T) {
	result := normalise(t, "Subject: Big\n\n"+strings.Repeat("x", MaxBodyChars+5))

	body := field(t, result.Records[0], "body").(string)
	assert.Len(t, body, MaxBodyChars)
	require.Len(t, result.Metadata.Warnings, 1)
	assert.Contains(t, result.Metadata.Warnings[0], "truncated")
}

func TestNormalise_InvalidEmail(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/path/to/email.eml",
		MIMEType: "message/rfc822",
		Content:  []byte("not a valid email"),
	}

	result, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "Simple Subject", expected: "Simple Subject"},
		{name: "empty", input: "", expected: ""},
		{name: "utf8 base64 encoded", input: "=?UTF-8?B?SGVsbG8gV29ybGQ=?=", expected: "Hello World"},
		{name: "utf8 quoted printable", input: "=?UTF-8?Q?Hello_World?=", expected: "Hello World"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, decodeHeader(tc.input))
		})
	}
}

func TestNormaliseDate(t *testing.T) {
	assert.Equal(t, "", normaliseDate(""))
	assert.Equal(t, "2024-03-05T09:30:00+01:00", normaliseDate("Tue, 5 Mar 2024 09:30:00 +0100"))
	assert.Equal(t, "next tuesday", normaliseDate("next tuesday"))
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
