package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ContentTypeJSON  = "application/json"
	ContentTypeForm  = "application/x-www-form-urlencoded"
	ContentTypeXML   = "application/xml"
	ContentTypeOctet = "application/octet-stream"
	ContentTypeZip   = "application/zip"
)

// Body is a request payload.
type Body interface {
	// Encode returns the serialized payload and its Content-Type.
	Encode() ([]byte, string, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs struct validation on v, or on each struct element when v is
// a slice. Other values pass unchecked.
func Validate(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return wrapValidation(validate.Struct(rv.Interface()))
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := Validate(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Errs: verrs}
	}
	return err
}

type jsonBody struct {
	v any
}

// JSON encodes v as the JSON request body after validating it.
func JSON(v any) Body {
	return jsonBody{v: v}
}

func (b jsonBody) Encode() ([]byte, string, error) {
	if err := Validate(b.v); err != nil {
		return nil, "", err
	}
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("encoding json body: %w", err)
	}
	return data, ContentTypeJSON, nil
}

type formBody struct {
	v any
}

// Form encodes v (url.Values or a schema-tagged struct) as
// application/x-www-form-urlencoded.
func Form(v any) Body {
	return formBody{v: v}
}

func (b formBody) Encode() ([]byte, string, error) {
	values, err := EncodeValues(b.v)
	if err != nil {
		return nil, "", err
	}
	return []byte(values.Encode()), ContentTypeForm, nil
}

type rawBody struct {
	contentType string
	data        []byte
}

// Raw sends data unchanged with the given content type.
func Raw(contentType string, data []byte) Body {
	return rawBody{contentType: contentType, data: data}
}

func (b rawBody) Encode() ([]byte, string, error) {
	ct := b.contentType
	if ct == "" {
		ct = ContentTypeOctet
	}
	return b.data, ct, nil
}

// File is one file part of a multipart/form-data body.
type File struct {
	Field       string
	FileName    string
	ContentType string
	Payload     io.Reader
}

type multipartBody struct {
	fields map[string]string
	files  []File
}

// Multipart builds a multipart/form-data body from plain fields and files.
func Multipart(fields map[string]string, files ...File) Body {
	return multipartBody{fields: fields, files: files}
}

func (b multipartBody) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(b.fields))
	for k := range b.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, b.fields[k]); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}

	for _, f := range b.files {
		if f.Payload == nil {
			return nil, "", fmt.Errorf("file %q has no payload", f.FileName)
		}
		field := f.Field
		if field == "" {
			field = "file"
		}
		ct := f.ContentType
		if ct == "" {
			ct = ContentTypeOctet
		}
		disposition := mime.FormatMediaType("form-data", map[string]string{"name": field, "filename": f.FileName})
		if disposition == "" {
			return nil, "", fmt.Errorf("invalid multipart field %q", field)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", disposition)
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part %s: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Payload); err != nil {
			return nil, "", fmt.Errorf("writing part %s: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
