package storage

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodeDataURI(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	contentType, data, err := decodeDataURI(uri)
	if err != nil {
		t.Fatalf("decodeDataURI failed: %v", err)
	}
	if contentType != "image/png" {
		t.Fatalf("unexpected content type: %q", contentType)
	}
	if string(data) != string(payload) {
		t.Fatalf("payload mismatch: %v", data)
	}
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not a data uri",
		"data:image/png;base64",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,plain-not-base64",
		"data:image/png;base64,!!!not-base64!!!",
	}
	for _, uri := range cases {
		if _, _, err := decodeDataURI(uri); !errors.Is(err, ErrBadImage) {
			t.Fatalf("decodeDataURI(%q) = %v, want ErrBadImage", uri, err)
		}
	}
}

func TestKeyFromURL(t *testing.T) {
	c := &Client{bucket: "products", endpoint: "https://s3.example.com"}

	key, ok := c.keyFromURL("https://s3.example.com/products/products/abc-123")
	if !ok || key != "products/abc-123" {
		t.Fatalf("keyFromURL = %q, %v", key, ok)
	}

	if _, ok := c.keyFromURL("https://elsewhere.example.com/products/x"); ok {
		t.Fatal("foreign URL should not resolve to a key")
	}
	if _, ok := c.keyFromURL("https://s3.example.com/products/"); ok {
		t.Fatal("empty key should not resolve")
	}
}
