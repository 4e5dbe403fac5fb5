package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Upload is a file field of a multipart request.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Form is an ordered multipart/form-data payload.
type Form struct {
	fields []formField
}

type formField struct {
	name   string
	value  string
	upload *Upload
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// File adds a file part. A nil upload is skipped so optional files can be
// passed straight through.
func (f *Form) File(name string, upload *Upload) *Form {
	if upload != nil {
		f.fields = append(f.fields, formField{name: name, upload: upload})
	}
	return f
}

func (f *Form) encode() (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if field.upload == nil {
			if err := w.WriteField(field.name, field.value); err != nil {
				return "", nil, err
			}
			continue
		}
		part, err := w.CreateFormFile(field.name, field.upload.Filename)
		if err != nil {
			return "", nil, err
		}
		if _, err := io.Copy(part, field.upload.Content); err != nil {
			return "", nil, fmt.Errorf("error copying %s: %w", field.upload.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), &buf, nil
}
