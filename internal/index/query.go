package index

import (
	"encoding/json"
	"errors"
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	bolt "go.etcd.io/bbolt"
	"sort"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("not found")

type CategoryStat struct {
	Name  string
	Count int
}

func (s *Store) Get(filename string) (catalogue.Product, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return catalogue.Product{}, ErrNotFound
	}
	var p catalogue.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bProducts)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(filename))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

// List returns every product in input order.
func (s *Store) List() ([]catalogue.Product, error) {
	var out []catalogue.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		orderB := tx.Bucket(bOrder)
		productsB := tx.Bucket(bProducts)
		if orderB == nil || productsB == nil {
			return nil
		}
		var err error
		out, err = collect(orderB, productsB)
		return err
	})
	return out, err
}

func (s *Store) ListByCategory(cat string) ([]catalogue.Product, error) {
	cat = strings.TrimSpace(cat)
	if cat == "" {
		return nil, nil
	}
	var out []catalogue.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxCat)
		productsB := tx.Bucket(bProducts)
		if parent == nil || productsB == nil {
			return nil
		}
		sb := parent.Bucket([]byte(cat))
		if sb == nil {
			return nil
		}
		var err error
		out, err = collect(sb, productsB)
		return err
	})
	return out, err
}

func collect(seqB, productsB *bolt.Bucket) ([]catalogue.Product, error) {
	var out []catalogue.Product
	cur := seqB.Cursor()
	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		if _, ok := seqFromKey(k); !ok {
			continue
		}
		raw := productsB.Get(v)
		if raw == nil {
			continue
		}
		var p catalogue.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Categories returns each category with its product count, most populated
// first, ties by name.
func (s *Store) Categories() ([]CategoryStat, error) {
	var stats []CategoryStat
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIdxCat)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			sb := b.Bucket(k)
			if sb == nil {
				return nil
			}
			stats = append(stats, CategoryStat{
				Name:  string(k),
				Count: sb.Stats().KeyN,
			})
			return nil
		})
	})
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})
	return stats, err
}

// SourceHash is the sha256 of the catalogue the index was built from.
func (s *Store) SourceHash() (string, error) {
	var h string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		h = string(b.Get(keySourceHash))
		return nil
	})
	return h, err
}

func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return nil
		}
		v := b.Get(keyCount)
		if v == nil {
			return nil
		}
		var err error
		n, err = strconv.Atoi(string(v))
		return err
	})
	return n, err
}
