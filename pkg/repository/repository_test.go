package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/repository/firestore"
	"github.com/sprintdeck/sprintdeck/pkg/repository/memory"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	return memory.New()
}

// newFirestoreRepo connects to a real Firestore project. Each call gets its
// own collection prefix so parallel runs cannot see each other's data.
func newFirestoreRepo(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithCollectionPrefix(fmt.Sprintf("test_%d", time.Now().UnixNano())))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}
