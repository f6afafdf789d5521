package kms

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/kms"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// 90 days
const rotationPeriod = "7776000s"

// SetupKMS enables Cloud KMS and creates the key ring and symmetric key the API
// uses to encrypt donor e-mails on payment records.
func SetupKMS(ctx *pulumi.Context, prov *gcp.Provider, keyRingID, keyID string) (*kms.CryptoKey, error) {
	gcpCfg := config.New(ctx, "gcp")

	svc, err := projects.NewService(ctx, "kmsService", &projects.ServiceArgs{
		Service: pulumi.String("cloudkms.googleapis.com"),
	}, pulumi.Provider(prov))
	if err != nil {
		return nil, err
	}

	ring, err := kms.NewKeyRing(ctx, keyRingID+"-ring", &kms.KeyRingArgs{
		Location: pulumi.String(gcpCfg.Require("region")),
		Name:     pulumi.String(keyRingID),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{svc}),
	)
	if err != nil {
		return nil, err
	}

	return kms.NewCryptoKey(ctx, keyID+"-key", &kms.CryptoKeyArgs{
		KeyRing:        ring.ID(),
		Name:           pulumi.String(keyID),
		Purpose:        pulumi.String("ENCRYPT_DECRYPT"),
		RotationPeriod: pulumi.String(rotationPeriod),
	},
		pulumi.Provider(prov),
		pulumi.Protect(true),
	)
}

// GrantEncryptDecrypt lets member use key and nothing else in the ring.
func GrantEncryptDecrypt(ctx *pulumi.Context, prov *gcp.Provider, key *kms.CryptoKey, member pulumi.StringInput) error {
	_, err := kms.NewCryptoKeyIAMMember(ctx, "donorKeyAccess", &kms.CryptoKeyIAMMemberArgs{
		CryptoKeyId: key.ID(),
		Role:        pulumi.String("roles/cloudkms.cryptoKeyEncrypterDecrypter"),
		Member:      member,
	},
		pulumi.Provider(prov),
	)
	return err
}
