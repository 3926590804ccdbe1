package application

import "crypto/rand"

const (
	// PasswordLength is the length of every generated password.
	PasswordLength = 12

	// PasswordAlphabet is the 90-character set generated passwords draw from.
	PasswordAlphabet = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!@#$%^&*()_+-=[]{}|;:',.<>?~"
)

// rejectAbove is the largest multiple of len(PasswordAlphabet) that fits in a
// byte. Bytes at or above it are discarded so every index is equally likely.
const rejectAbove = 256 - 256%len(PasswordAlphabet)

// GeneratePassword returns PasswordLength characters, each drawn independently
// and uniformly from PasswordAlphabet.
func GeneratePassword() string {
	out := make([]byte, 0, PasswordLength)
	buf := make([]byte, PasswordLength*2)

	for len(out) < PasswordLength {
		// crypto/rand.Read never returns an error.
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, PasswordAlphabet[int(b)%len(PasswordAlphabet)])
			if len(out) == PasswordLength {
				break
			}
		}
	}

	return string(out)
}
