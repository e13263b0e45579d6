package qr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-checkin/internal/models"
	"ms-checkin/internal/qr"
)

func newTestCodec(t *testing.T) *qr.Codec {
	codec, err := qr.NewCodec(qr.CodecConfig{
		Salt:      "test-salt-do-not-use-in-prod",
		MinLength: 12,
	})
	require.NoError(t, err)
	return codec
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	identities := []models.TicketIdentity{
		{ReservationID: 1, AttendeeID: 2, EventID: 3, TicketID: 4},
		{ReservationID: 12345, AttendeeID: 67890, EventID: 111, TicketID: 99999999},
		{ReservationID: 0, AttendeeID: 42, EventID: 0, TicketID: 0},
		{ReservationID: 7, AttendeeID: 0, EventID: 0, TicketID: 0},
		{ReservationID: 0, AttendeeID: 0, EventID: 0, TicketID: 1},
	}

	for _, identity := range identities {
		token, err := codec.Encode(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.GreaterOrEqual(t, len(token), 12)

		decoded, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, identity, decoded)
	}
}

func TestCodecTokenIsURLSafe(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(models.TicketIdentity{ReservationID: 55, AttendeeID: 66, EventID: 77, TicketID: 88})
	require.NoError(t, err)

	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

func TestCodecConsecutiveIDsDiffer(t *testing.T) {
	codec := newTestCodec(t)

	a, err := codec.Encode(models.TicketIdentity{ReservationID: 1, AttendeeID: 1, EventID: 1, TicketID: 1})
	require.NoError(t, err)
	b, err := codec.Encode(models.TicketIdentity{ReservationID: 1, AttendeeID: 1, EventID: 1, TicketID: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCodecRejectsAllNull(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(models.TicketIdentity{})
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, qr.IsKind(err, qr.KindMalformedToken))
}

func TestCodecRejectsBlank(t *testing.T) {
	codec := newTestCodec(t)

	for _, token := range []string{"", "   "} {
		_, err := codec.Decode(token)
		require.Error(t, err)
		assert.True(t, qr.IsKind(err, qr.KindEmptyInput))
	}
}

func TestCodecRejectsForeignString(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decode("definitely-not-a-token!!!")
	require.Error(t, err)
	assert.True(t, qr.IsKind(err, qr.KindDecodeFailure) || qr.IsKind(err, qr.KindMalformedToken))
}

func TestCodecDifferentSaltsDisagree(t *testing.T) {
	codecA := newTestCodec(t)
	codecB, err := qr.NewCodec(qr.CodecConfig{Salt: "another-salt", MinLength: 12})
	require.NoError(t, err)

	identity := models.TicketIdentity{ReservationID: 9, AttendeeID: 8, EventID: 7, TicketID: 6}
	tokenA, err := codecA.Encode(identity)
	require.NoError(t, err)
	tokenB, err := codecB.Encode(identity)
	require.NoError(t, err)

	assert.NotEqual(t, tokenA, tokenB)
}

func TestNewCodecRequiresSalt(t *testing.T) {
	_, err := qr.NewCodec(qr.CodecConfig{})
	assert.Error(t, err)
}
