package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

type boltEngine struct {
	db *bolt.DB
}

func openBolt(ctx context.Context, path string) (*boltEngine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The file lock is exclusive; fail fast instead of hanging when another process holds it.
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, c := range Collections() {
			if _, err := tx.CreateBucketIfNotExists([]byte(c)); err != nil {
				return errors.Wrapf(err, "create bucket %s", c)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltEngine{db: db}, nil
}

func bucket(tx *bolt.Tx, c Collection) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(c))
	if b == nil {
		return nil, errors.Errorf("bucket %s missing", c)
	}
	return b, nil
}

func (e *boltEngine) GetAll(ctx context.Context, c Collection) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out [][]byte
	err := e.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, c)
		if err != nil {
			return err
		}
		// Values are only valid for the life of the transaction.
		return b.ForEach(func(_, v []byte) error {
			out = append(out, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt get-all %s", c)
	}
	return out, nil
}

func (e *boltEngine) Get(ctx context.Context, c Collection, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var out []byte
	err := e.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, c)
		if err != nil {
			return err
		}
		if v := b.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "bolt get %s/%s", c, key)
	}
	return out, out != nil, nil
}

func (e *boltEngine) Put(ctx context.Context, c Collection, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, c)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	return errors.Wrapf(err, "bolt put %s/%s", c, key)
}

func (e *boltEngine) Delete(ctx context.Context, c Collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, c)
		if err != nil {
			return err
		}
		return b.Delete([]byte(key))
	})
	return errors.Wrapf(err, "bolt delete %s/%s", c, key)
}

func (e *boltEngine) Clear(ctx context.Context, c Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(c)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(c))
		return err
	})
	return errors.Wrapf(err, "bolt clear %s", c)
}

func (e *boltEngine) Close() error {
	return e.db.Close()
}
