package helpers

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// GenVerificationCode returns a random 5-digit code in [10000, 99999].
func GenVerificationCode() (int, error) {
	n, err := randUint32()
	if err != nil {
		return 0, err
	}
	return 10000 + int(n%90000), nil
}

// GenMediaSuffix returns a random numeric suffix used to keep object keys unique.
func GenMediaSuffix() (string, error) {
	n, err := randUint32()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", 10000+n%990000), nil
}

func randUint32() (uint32, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
