package soutubot

import (
	"encoding/base64"
	"math/big"
	"strings"
	"time"
)

const apiKeyOffset = 4746193387776

// APIKey derives the x-api-key header the upstream expects. It depends only
// on the wall-clock second (rounded to nearest) and the User-Agent length:
//
//	t = secs² + len(ua)² + 4746193387776, truncated to a multiple of 100
//
// The decimal string of t is base64-encoded, stripped of padding and reversed.
func APIKey(now time.Time, userAgent string) string {
	secs := now.Unix()
	if now.Nanosecond() >= int(time.Second/2) {
		secs++
	}

	t := new(big.Int).Mul(big.NewInt(secs), big.NewInt(secs))
	uaLen := big.NewInt(int64(len(userAgent)))
	t.Add(t, new(big.Int).Mul(uaLen, uaLen))
	t.Add(t, big.NewInt(apiKeyOffset))
	t.Sub(t, new(big.Int).Mod(t, big.NewInt(100)))

	encoded := strings.TrimRight(base64.StdEncoding.EncodeToString([]byte(t.String())), "=")
	return reverse(encoded)
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
