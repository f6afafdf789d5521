package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/schoolfund-backend/infra/cloudrun"
	"github.com/GregMSThompson/schoolfund-backend/infra/docker"
	"github.com/GregMSThompson/schoolfund-backend/infra/firestore"
	"github.com/GregMSThompson/schoolfund-backend/infra/identity"
	"github.com/GregMSThompson/schoolfund-backend/infra/kms"
	"github.com/GregMSThompson/schoolfund-backend/infra/provider"
	"github.com/GregMSThompson/schoolfund-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs firebase id tokens
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// campaigns, schools, payments and audit logs
		fsdb, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// campaign copy generation and chat
		vsvc, err := vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// key for donor e-mails on payment records
		donorKey, err := kms.SetupKMS(ctx, prov, "schoolfund", "donor-pii")
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, donorKey, ident, fsdb, vsvc, repo)
		if err != nil {
			return err
		}

		ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
		ctx.Export("kmsKeyName", donorKey.ID())
		return nil
	})
}
