package services

import (
	"errors"
	"fmt"
	"time"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnsupportedMediaType
	KindPayloadTooLarge
	KindRateLimited
	KindInvalidImage
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnsupportedMediaType:
		return "UnsupportedMediaType"
	case KindPayloadTooLarge:
		return "PayloadTooLarge"
	case KindRateLimited:
		return "RateLimited"
	case KindInvalidImage:
		return "InvalidImage"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// UploadError est le rejet d'un envoi d'image. Le message est destiné à
// être affiché tel quel dans l'admin.
type UploadError struct {
	Kind       ErrorKind
	Message    string
	RetryAfter time.Duration
}

func (e *UploadError) Error() string { return e.Message }

// Is permet errors.Is(err, ErrInvalidImage) quel que soit le message
func (e *UploadError) Is(target error) bool {
	t, ok := target.(*UploadError)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation           = &UploadError{Kind: KindValidation, Message: "image requise"}
	ErrUnsupportedMediaType = &UploadError{Kind: KindUnsupportedMediaType, Message: "type de fichier non supporté"}
	ErrPayloadTooLarge      = &UploadError{Kind: KindPayloadTooLarge, Message: "fichier trop volumineux"}
	ErrRateLimited          = &UploadError{Kind: KindRateLimited, Message: "trop d'envois, réessayez plus tard"}
	ErrInvalidImage         = &UploadError{Kind: KindInvalidImage, Message: "image invalide"}
)

func uploadErr(kind ErrorKind, format string, args ...interface{}) *UploadError {
	return &UploadError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsUploadError extrait l'UploadError d'une chaîne d'erreurs
func AsUploadError(err error) (*UploadError, bool) {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
