// Package fieldcipher encrypts PII fields before they are persisted.
//
// Each value goes through two AES-256-CBC passes with independent key/IV pairs. The
// first pass encrypts the plaintext, the second encrypts the hex output of the first.
// Both passes use a fixed IV, so the transform is deterministic: equal plaintexts give
// equal ciphertexts, which is what allows equality lookups on encrypted columns.
package fieldcipher

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDecryption is returned when a stored value cannot be decrypted.
var ErrDecryption = errors.New("field decryption failed")

// ErrInvalidKey is returned when a key or IV has the wrong length.
var ErrInvalidKey = errors.New("invalid field cipher key")

const (
	keySize = 32
	ivSize  = aes.BlockSize
)

// KeyPair is one AES key and its initialization vector.
type KeyPair struct {
	Key []byte
	IV  []byte
}

// ParseKeyPair decodes a hex key and a hex IV.
func ParseKeyPair(keyHex, ivHex string) (KeyPair, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: key is not hex: %v", ErrInvalidKey, err)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: iv is not hex: %v", ErrInvalidKey, err)
	}
	return KeyPair{Key: key, IV: iv}, nil
}

// Cipher applies the two-pass transform.
type Cipher struct {
	first    cipher.Block
	firstIV  []byte
	second   cipher.Block
	secondIV []byte
}

// New creates a Cipher from two independent key pairs.
func New(first, second KeyPair) (*Cipher, error) {
	b1, err := newBlock(first)
	if err != nil {
		return nil, fmt.Errorf("first key pair: %w", err)
	}
	b2, err := newBlock(second)
	if err != nil {
		return nil, fmt.Errorf("second key pair: %w", err)
	}
	return &Cipher{first: b1, firstIV: first.IV, second: b2, secondIV: second.IV}, nil
}

func newBlock(kp KeyPair) (cipher.Block, error) {
	if len(kp.Key) != keySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidKey, keySize, len(kp.Key))
	}
	if len(kp.IV) != ivSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidKey, ivSize, len(kp.IV))
	}
	return aes.NewCipher(kp.Key)
}

// Encrypt returns the hex ciphertext of plaintext. The empty string maps to itself.
func (c *Cipher) Encrypt(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	pass1 := encryptPass(c.first, c.firstIV, []byte(plaintext))
	return encryptPass(c.second, c.secondIV, []byte(pass1))
}

// Decrypt reverses Encrypt: pass two is undone first, then pass one.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	pass1, err := decryptPass(c.second, c.secondIV, ciphertext)
	if err != nil {
		return "", err
	}
	plain, err := decryptPass(c.first, c.firstIV, string(pass1))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// DecryptOrRaw decrypts stored, falling back to the stored value itself when it is not
// valid ciphertext. Rows written before encryption was introduced hold plaintext.
func (c *Cipher) DecryptOrRaw(stored string) string {
	plain, err := c.Decrypt(stored)
	if err != nil {
		return stored
	}
	return plain
}

func encryptPass(block cipher.Block, iv, data []byte) string {
	padded := pad(data)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out)
}

func decryptPass(block cipher.Block, iv []byte, hexData string) ([]byte, error) {
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", ErrDecryption, len(data))
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
	return unpad(out)
}

// pad applies PKCS#7 padding.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
		}
	}
	return data[:len(data)-n], nil
}
