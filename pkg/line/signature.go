package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// ValidateSignature verifies the X-Line-Signature header against the raw
// request body. LINE signs the body with HMAC-SHA256 using the channel
// secret and sends the digest base64-encoded.
func ValidateSignature(channelSecret string, body []byte, signature string) error {
	if channelSecret == "" {
		return fmt.Errorf("line: channel secret not configured")
	}
	if signature == "" {
		return fmt.Errorf("line: missing signature")
	}

	expectedSig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("line: invalid signature encoding: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	actualSig := mac.Sum(nil)

	// Constant-time comparison on raw bytes
	if !hmac.Equal(expectedSig, actualSig) {
		return fmt.Errorf("line: signature verification failed")
	}

	return nil
}
