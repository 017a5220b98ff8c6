package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form is an ordered multipart/form-data body.
type Form struct {
	parts []formPart
}

type formPart struct {
	name        string
	value       string
	isFile      bool
	filename    string
	contentType string
	data        []byte
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Field(name string, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

func (f *Form) File(name string, filename string, contentType string, data []byte) *Form {
	f.parts = append(f.parts, formPart{
		name:        name,
		isFile:      true,
		filename:    filename,
		contentType: contentType,
		data:        data,
	})
	return f
}

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, part := range f.parts {
		if !part.isFile {
			if err := writer.WriteField(part.name, part.value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", part.name, err)
			}
			continue
		}

		contentType := part.contentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(part.name), escapeQuotes(part.filename)))
		header.Set("Content-Type", contentType)

		partWriter, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", part.name, err)
		}
		if _, err := partWriter.Write(part.data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", part.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
