package resume

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a master resume from a JSON or YAML file and validates it.
func Load(path string) (doc Document, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume file: %s", path)
		return doc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = DecodeYAML(data)
	default:
		doc, err = DecodeJSON(data)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to parse resume file: %s", path)
		return doc, err
	}

	err = Validate(doc)
	if err != nil {
		err = errors.Wrap(err, "resume validation failed")
		return doc, err
	}

	return doc, err
}

// DecodeJSON decodes a document, reporting type mismatches as WrongType validation errors.
func DecodeJSON(data []byte) (doc Document, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err = dec.Decode(&doc)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			err = &ValidationError{Kind: WrongType, Field: typeErr.Field}
			return doc, err
		}
		err = errors.Wrap(err, "invalid JSON")
		return doc, err
	}

	return doc, err
}

// DecodeYAML decodes a document from YAML.
func DecodeYAML(data []byte) (doc Document, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(&doc)
	if err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			field := "document"
			if len(typeErr.Errors) > 0 {
				field = typeErr.Errors[0]
			}
			err = &ValidationError{Kind: WrongType, Field: field}
			return doc, err
		}
		err = errors.Wrap(err, "invalid YAML")
		return doc, err
	}

	return doc, err
}

// Save writes doc as JSON or YAML, chosen by the file extension.
func Save(path string, doc Document) (err error) {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		err = errors.Wrap(err, "failed to encode resume")
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create directory for %s", path)
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write resume file: %s", path)
		return err
	}

	return err
}
