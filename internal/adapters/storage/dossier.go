package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dossierContentType = "application/json"

// DossierArchive keeps every research dossier that was reconciled into a
// lead, one object per campaign run: dossiers/<lead-id>/<unix-nanos>.json.
type DossierArchive struct {
	store  ObjectStore
	bucket string
	now    func() time.Time
}

// NewDossierArchive creates an archive writing into bucket.
func NewDossierArchive(store ObjectStore, bucket string) *DossierArchive {
	return &DossierArchive{store: store, bucket: bucket, now: time.Now}
}

// Archive stores the raw dossier for a lead.
func (a *DossierArchive) Archive(ctx context.Context, leadID uuid.UUID, dossier json.RawMessage) error {
	key := DossierKey(leadID, a.now())
	if err := a.store.PutObject(ctx, a.bucket, key, dossierContentType, bytes.NewReader(dossier), int64(len(dossier))); err != nil {
		return fmt.Errorf("archive dossier for lead %s: %w", leadID, err)
	}
	return nil
}

// DossierKey is the object key for a dossier captured at t.
func DossierKey(leadID uuid.UUID, t time.Time) string {
	return fmt.Sprintf("dossiers/%s/%d.json", leadID, t.UnixNano())
}
