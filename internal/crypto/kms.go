package crypto

import (
	"context"
	"encoding/base64"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
)

// keyClient is satisfied by *kms.KeyManagementClient.
type keyClient interface {
	Encrypt(ctx context.Context, req *kmspb.EncryptRequest, opts ...gax.CallOption) (*kmspb.EncryptResponse, error)
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

// donor fields are bound to this context so ciphertext cannot be replayed into another field
var donorAAD = []byte("schoolfund/donor")

type kms struct {
	client  keyClient
	keyName string
}

// NewKMS returns a field encrypter for donor PII. With no client or key name it
// passes values through unchanged.
func NewKMS(client keyClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

func (k *kms) enabled() bool {
	return k.client != nil && k.keyName != ""
}

// KmsEncrypt returns base64 ciphertext for plaintext. Empty input stays empty.
func (k *kms) KmsEncrypt(ctx context.Context, plaintext string) (string, error) {
	if !k.enabled() || plaintext == "" {
		return plaintext, nil
	}
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:                        k.keyName,
		Plaintext:                   []byte(plaintext),
		AdditionalAuthenticatedData: donorAAD,
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to encrypt donor data", err)
	}
	return base64.StdEncoding.EncodeToString(resp.GetCiphertext()), nil
}

// KmsDecrypt reverses KmsEncrypt.
func (k *kms) KmsDecrypt(ctx context.Context, ciphertext string) (string, error) {
	if !k.enabled() || ciphertext == "" {
		return ciphertext, nil
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.NewEncryptionError("donor data is not valid ciphertext", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:                        k.keyName,
		Ciphertext:                  raw,
		AdditionalAuthenticatedData: donorAAD,
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to decrypt donor data", err)
	}
	return string(resp.GetPlaintext()), nil
}
