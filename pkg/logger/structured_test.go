package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerivedLoggersChain(t *testing.T) {
	InitStructured("test")

	log := WithPlatform("twitter")
	require.NotNil(t, log)
	log.Info().Str("content_id", "7").Msg("derived logger local binding")

	// Level methods must chain directly off the constructor call
	WithPlatform("discord").Warn().Msg("derived logger direct chain")
	WithRequestID("req-123").Info().Msg("request id direct chain")
}
