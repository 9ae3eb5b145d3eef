package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/JaimeStill/helix/pkg/dna"
	"github.com/JaimeStill/helix/pkg/storage"
)

const (
	blobPrefix      = "records/"
	blobContentType = "application/json"
	blobMutantKey   = "mutant"
)

type blobStore struct {
	storage storage.System
}

// NewBlob returns a Store that keeps one JSON blob per record under
// records/<fingerprint>.json. The classification is duplicated into blob
// metadata so lookups and counts never download bodies. Atomicity comes
// from the service's If-None-Match: * conditional write.
func NewBlob(sys storage.System) Store {
	return &blobStore{storage: sys}
}

func blobKey(fp dna.Fingerprint) string {
	return blobPrefix + fp.String() + ".json"
}

func (b *blobStore) Lookup(ctx context.Context, fp dna.Fingerprint) (bool, bool, error) {
	meta, err := b.storage.Metadata(ctx, blobKey(fp))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, false, nil
		}
		return false, false, storageError("lookup", err)
	}

	mutant, err := parseMutant(meta)
	if err != nil {
		return false, false, storageError("lookup", err)
	}
	return mutant, true, nil
}

func (b *blobStore) InsertIfAbsent(ctx context.Context, fp dna.Fingerprint, mutant bool) (bool, error) {
	body, err := json.Marshal(NewRecord(fp, mutant))
	if err != nil {
		return false, storageError("insert", fmt.Errorf("encode record: %w", err))
	}

	inserted, err := b.storage.UploadIfAbsent(
		ctx,
		blobKey(fp),
		body,
		blobContentType,
		map[string]string{blobMutantKey: strconv.FormatBool(mutant)},
	)
	if err != nil {
		return false, storageError("insert", err)
	}
	return inserted, nil
}

func (b *blobStore) CountWhere(ctx context.Context, mutant bool) (int64, error) {
	var n int64
	err := b.storage.Walk(ctx, blobPrefix, func(key string, meta map[string]string) error {
		got, err := parseMutant(meta)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if got == mutant {
			n++
		}
		return nil
	})

	if err != nil {
		return 0, storageError("count", err)
	}
	return n, nil
}

func parseMutant(meta map[string]string) (bool, error) {
	v, ok := meta[blobMutantKey]
	if !ok {
		return false, fmt.Errorf("record metadata missing %q", blobMutantKey)
	}
	return strconv.ParseBool(v)
}
