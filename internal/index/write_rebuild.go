package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	bolt "go.etcd.io/bbolt"
	"strconv"
	"strings"
)

type RebuildOptions struct {
	SourceHash string
}

// Rebuild replaces the whole index with products, keeping their order.
// Filenames must already be unique; a duplicate aborts the transaction.
func (s *Store) Rebuild(products []catalogue.Product, opt RebuildOptions) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bProducts, bOrder, bIdxCat, bMeta} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}

		productsB, err := tx.CreateBucket(bProducts)
		if err != nil {
			return err
		}
		orderB, err := tx.CreateBucket(bOrder)
		if err != nil {
			return err
		}
		idxCatB, err := tx.CreateBucket(bIdxCat)
		if err != nil {
			return err
		}
		metaB, err := tx.CreateBucket(bMeta)
		if err != nil {
			return err
		}

		for seq, p := range products {
			if strings.TrimSpace(p.Filename) == "" {
				return fmt.Errorf("index: product at line %d has no filename", p.Line)
			}
			key := []byte(p.Filename)
			if productsB.Get(key) != nil {
				return fmt.Errorf("index: duplicate filename %s", p.Filename)
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := productsB.Put(key, pb); err != nil {
				return err
			}

			sKey := makeSeqKey(seq)
			if err := orderB.Put(sKey, key); err != nil {
				return err
			}

			if cat := p.Category(); cat != "" {
				sb, err := idxCatB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(sKey, key); err != nil {
					return err
				}
			}
		}

		if err := metaB.Put(keySourceHash, []byte(opt.SourceHash)); err != nil {
			return err
		}
		return metaB.Put(keyCount, []byte(strconv.Itoa(len(products))))
	})
}
