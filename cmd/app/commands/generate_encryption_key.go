package commands

import (
	"encoding/json"
	"fmt"
	"io"

	cryptoService "github.com/journeymanhq/dataprotect/internal/crypto/service"
)

// RunGenerateEncryptionKey generates random key material suitable for the
// ENCRYPTION_KEY environment variable and writes it to out.
// Supports both text/JSON output formats.
func RunGenerateEncryptionKey(out io.Writer, format string) error {
	keyMaterial, err := cryptoService.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if format == "json" {
		result := map[string]string{"encryption_key": keyMaterial}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}

	fmt.Fprintf(out, "Generated encryption key (set as ENCRYPTION_KEY):\n%s\n", keyMaterial)
	return nil
}
