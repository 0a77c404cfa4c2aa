package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// TrackingCodePrefix tags marketer tracking codes
const TrackingCodePrefix = "MKT"

// GenerateTrackingCode generates a unique tracking code for a marketer.
// Format: MKT-XXXXXX where XXXXXX is 6 alphanumeric characters.
func GenerateTrackingCode() (string, error) {
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = strings.ToUpper(randomStr[:6])
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return TrackingCodePrefix + "-" + randomStr, nil
}
