package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunGenerateEncryptionKey(t *testing.T) {
	t.Run("text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGenerateEncryptionKey(&out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "ENCRYPTION_KEY")

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		keyMaterial := lines[len(lines)-1]

		key, err := base64.URLEncoding.DecodeString(keyMaterial)
		require.NoError(t, err)
		require.Len(t, key, 32)
	})

	t.Run("json-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGenerateEncryptionKey(&out, "json")

		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))

		key, err := base64.URLEncoding.DecodeString(result["encryption_key"])
		require.NoError(t, err)
		require.Len(t, key, 32)
	})

	t.Run("keys-are-unique", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, RunGenerateEncryptionKey(&first, "json"))
		require.NoError(t, RunGenerateEncryptionKey(&second, "json"))
		require.NotEqual(t, first.String(), second.String())
	})
}
