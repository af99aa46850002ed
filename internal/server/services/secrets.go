package services

import (
	"github.com/dmitrijs2005/passvault/internal/cryptox"
)

// sealFields encodes each field in place with key.
func sealFields(key []byte, fields ...*string) error {
	for _, f := range fields {
		enc, err := cryptox.EncodeString(*f, key)
		if err != nil {
			return err
		}
		*f = enc
	}
	return nil
}

// openFields decodes each field in place with key.
func openFields(key []byte, fields ...*string) error {
	for _, f := range fields {
		dec, err := cryptox.DecodeString(*f, key)
		if err != nil {
			return err
		}
		*f = dec
	}
	return nil
}
