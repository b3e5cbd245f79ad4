package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeResultObject(t *testing.T) {
	t.Parallel()

	t.Run("decodes embedded list", func(t *testing.T) {
		env := RawRecord{
			"resultObject": `[{"companyName":"Acme"},{"postId":"p1","likes":3}]`,
		}
		records, err := DecodeResultObject(env)
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.Equal(t, "Acme", records[0]["companyName"])
		require.Equal(t, float64(3), records[1]["likes"])
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := DecodeResultObject(RawRecord{"other": "x"})
		var envErr *EnvelopeError
		require.ErrorAs(t, err, &envErr)
		require.Equal(t, "no resultObject found", envErr.Reason)
	})

	t.Run("non-string value", func(t *testing.T) {
		_, err := DecodeResultObject(RawRecord{"resultObject": []any{"not", "a", "string"}})
		var envErr *EnvelopeError
		require.ErrorAs(t, err, &envErr)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeResultObject(RawRecord{"resultObject": `[{"companyName":`})
		var envErr *EnvelopeError
		require.ErrorAs(t, err, &envErr)
		require.Contains(t, envErr.Reason, "invalid JSON in resultObject")
	})

	t.Run("top level is not a list", func(t *testing.T) {
		_, err := DecodeResultObject(RawRecord{"resultObject": `{"companyName":"Acme"}`})
		var envErr *EnvelopeError
		require.ErrorAs(t, err, &envErr)
		require.Equal(t, "resultObject should contain a list", envErr.Reason)
	})

	t.Run("empty list", func(t *testing.T) {
		records, err := DecodeResultObject(RawRecord{"resultObject": `[]`})
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("non-object elements become nil placeholders", func(t *testing.T) {
		records, err := DecodeResultObject(RawRecord{"resultObject": `[{"postId":"p1"}, 42, "text"]`})
		require.NoError(t, err)
		require.Len(t, records, 3)
		require.NotNil(t, records[0])
		require.Nil(t, records[1])
		require.Nil(t, records[2])
	})
}
