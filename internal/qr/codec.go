package qr

import (
	"fmt"
	"strings"

	hashids "github.com/speps/go-hashids/v2"

	"ms-checkin/internal/models"
)

// CodecConfig is fixed at process start and must be identical across
// every instance of the deployment: a token encoded with one salt can
// never be decoded with another.
type CodecConfig struct {
	Salt      string
	Alphabet  string
	MinLength int
}

// Codec reversibly maps a TicketIdentity to a short URL-safe token.
// It never touches storage; whether the referenced entities exist is
// the caller's concern.
type Codec struct {
	h *hashids.HashID
}

func NewCodec(cfg CodecConfig) (*Codec, error) {
	if cfg.Salt == "" {
		return nil, fmt.Errorf("qr codec: salt must not be empty")
	}
	data := hashids.NewData()
	data.Salt = cfg.Salt
	if cfg.Alphabet != "" {
		data.Alphabet = cfg.Alphabet
	}
	if cfg.MinLength > 0 {
		data.MinLength = cfg.MinLength
	}
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("qr codec: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode packs the identity tuple into a single token. Zero components
// are carried through as the null sentinel and survive the round trip.
func (c *Codec) Encode(identity models.TicketIdentity) (string, error) {
	token, err := c.h.EncodeInt64([]int64{
		identity.ReservationID,
		identity.AttendeeID,
		identity.EventID,
		identity.TicketID,
	})
	if err != nil {
		return "", fmt.Errorf("encode qr link token: %w", err)
	}
	return token, nil
}

// Decode is the inverse of Encode. It fails for blank input, for a
// decode that does not yield exactly four components, and for an
// all-zero tuple. It never rejects a well-shaped decode for carrying
// large numbers.
func (c *Codec) Decode(token string) (models.TicketIdentity, error) {
	if strings.TrimSpace(token) == "" {
		return models.TicketIdentity{}, NewBadRequest(KindEmptyInput, "QR 코드 값이 비어 있습니다.", nil)
	}

	numbers, err := c.h.DecodeInt64WithError(token)
	if err != nil {
		return models.TicketIdentity{}, NewBadRequest(KindDecodeFailure, "QR 코드를 해석할 수 없습니다.", err)
	}
	if len(numbers) != 4 {
		return models.TicketIdentity{}, NewBadRequest(KindMalformedToken, "유효하지 않은 QR 코드입니다.", nil)
	}

	identity := models.TicketIdentity{
		ReservationID: numbers[0],
		AttendeeID:    numbers[1],
		EventID:       numbers[2],
		TicketID:      numbers[3],
	}
	if identity.IsZero() {
		return models.TicketIdentity{}, NewBadRequest(KindMalformedToken, "유효하지 않은 QR 코드입니다.", nil)
	}
	return identity, nil
}
