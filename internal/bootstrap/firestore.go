package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
)

// InitFirestore opens the default database. An empty projectID is detected from
// the environment; the emulator is used when FIRESTORE_EMULATOR_HOST is set.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	return firestore.NewClient(ctx, projectID)
}
