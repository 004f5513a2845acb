package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"strconv"
)

// Sign computes the DingTalk robot signature for timestampMillis:
// urlencode(base64(HMAC-SHA256(secret, "<timestamp>\n<secret>"))).
// The result is already escaped for use as a query value.
func Sign(secret string, timestampMillis int64) (string, error) {
	if secret == "" {
		return "", &DeliveryError{
			Kind:    KindSigning,
			Message: "signing secret is empty",
			Cause:   errors.New("hmac key must not be empty"),
		}
	}

	stringToSign := strconv.FormatInt(timestampMillis, 10) + "\n" + secret

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return url.QueryEscape(signature), nil
}
