package core

import (
	"encoding/base64"
	"encoding/json"
)

type payload struct {
	Token string `json:"t"`
	Sig   string `json:"sig"`
}

// EncodePayload packs a token and its signature into a URL-safe string.
func EncodePayload(token, signature string) (string, error) {
	raw, err := json.Marshal(payload{Token: token, Sig: signature})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodePayload(encoded string) (payload, error) {
	var data payload
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return data, ErrBadPayload
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, ErrBadPayload
	}
	if data.Token == "" {
		return data, ErrBadPayload
	}
	return data, nil
}
