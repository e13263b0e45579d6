package qr

import (
	"fmt"
	"regexp"
	"strings"

	"ms-checkin/internal/models"
)

// manualCodeRegexp is derived from ManualCodeAlphabet so the generator
// and the validator can never disagree about the legal character set.
var manualCodeRegexp = regexp.MustCompile(
	fmt.Sprintf("^[%s]{4}-[%s]{4}$", ManualCodeAlphabet, ManualCodeAlphabet),
)

// Validator turns raw scanner input into a TicketIdentity or a typed
// bad-request error. It does no storage lookups; whether a manual code
// exists is the store's concern.
type Validator struct {
	codec *Codec
}

func NewValidator(codec *Codec) *Validator {
	return &Validator{codec: codec}
}

// DecodeToIdentity rejects blank input, then delegates to the codec.
// Codec failures are already typed; anything else is wrapped so the
// raw codec internals never leak to the caller.
func (v *Validator) DecodeToIdentity(token string) (models.TicketIdentity, error) {
	if strings.TrimSpace(token) == "" {
		return models.TicketIdentity{}, NewBadRequest(KindEmptyInput, "QR 코드 값이 비어 있습니다.", nil)
	}
	identity, err := v.codec.Decode(token)
	if err != nil {
		if _, ok := err.(*BadRequestError); ok {
			return models.TicketIdentity{}, err
		}
		return models.TicketIdentity{}, NewBadRequest(KindDecodeFailure, "QR 코드를 해석할 수 없습니다.", err)
	}
	return identity, nil
}

// ValidateManualCode is a pure shape check against the generator's
// alphabet: four characters, a dash, four characters.
func (v *Validator) ValidateManualCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return NewBadRequest(KindEmptyInput, "입장 코드 값이 비어 있습니다.", nil)
	}
	if !manualCodeRegexp.MatchString(code) {
		return NewBadRequest(KindInvalidManualCode, "입장 코드 형식이 올바르지 않습니다. (예: A2B3-C4D5)", nil)
	}
	return nil
}
