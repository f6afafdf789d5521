package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	stripeclient "github.com/GregMSThompson/schoolfund-backend/internal/client/stripe"
	vertexclient "github.com/GregMSThompson/schoolfund-backend/internal/client/vertex"
	"github.com/GregMSThompson/schoolfund-backend/internal/config"
	"github.com/GregMSThompson/schoolfund-backend/internal/store"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type Bootstrap struct {
	Log           *slog.Logger
	Firestore     *firestore.Client
	Firebase      *auth.Client
	KMS           *kms.KeyManagementClient
	Secrets       *secretmanager.Client
	VertexAdapter *vertexclient.Adapter
	StripeAdapter *stripeclient.Adapter
}

// RunFirestore sets up logging and Firestore only; enough for one-shot tools.
func RunFirestore(cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	slog.SetDefault(bs.Log)
	bs.Firestore, err = InitFirestore(context.Background(), cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	return bs, nil
}

// Run sets up every client the API needs. The Stripe secret key comes from
// the environment, or from Secret Manager when the environment leaves it empty.
func Run(cfg *config.Config) (*Bootstrap, error) {
	applicationCtx := context.Background()

	bs, err := RunFirestore(cfg)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	if cfg.KMSKeyName != "" {
		bs.KMS, err = InitKMS(applicationCtx)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Warn("KMSKEYNAME not set; donor e-mails are stored unencrypted")
	}
	bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
	if err != nil {
		return bs, err
	}

	secretKey := cfg.StripeSecretKey
	if secretKey == "" {
		bs.Secrets, err = InitSecretManager(applicationCtx)
		if err != nil {
			return bs, err
		}
		secretKey, err = store.NewSecretsStore(bs.Secrets, cfg.ProjectID).Latest(applicationCtx, cfg.StripeSecretName)
		if err != nil {
			return bs, err
		}
		bs.Log.Info("stripe secret key loaded from secret manager", "secret", cfg.StripeSecretName)
	}
	bs.StripeAdapter = stripeclient.NewAdapter(secretKey)

	return bs, nil
}

// Close releases every client that was opened. Safe on a partially built Bootstrap.
func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.VertexAdapter != nil {
		errList = append(errList, bs.VertexAdapter.Close())
	}
	if bs.KMS != nil {
		errList = append(errList, bs.KMS.Close())
	}
	if bs.Secrets != nil {
		errList = append(errList, bs.Secrets.Close())
	}
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	return errors.Join(errList...)
}
