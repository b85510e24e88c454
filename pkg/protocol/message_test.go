package protocol_test

import (
	"testing"

	"github.com/relaychess/relaychess/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := protocol.Message{
		Type:     protocol.TypeMove,
		From:     "e2",
		To:       "e4",
		GameID:   "game-1",
		Username: "alice",
	}

	data, err := protocol.Encode(m)
	require.NoError(t, err)

	got, err := protocol.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestDecodeUnknownFieldsIgnored(t *testing.T) {
	got, err := protocol.Decode([]byte(`{"type":"resign","extra_junk":true}`))
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeResign, got.Type)
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := protocol.Decode([]byte(`not json`))
	assert.Error(t, err)
}
