package main

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/behrlich/cfrsolve/pkg/cfr"
	"github.com/behrlich/cfrsolve/pkg/game"
)

// checkpointKey is the single LevelDB key a checkpointStore uses: the
// solver state is small enough (one entry per information set) that there
// is no benefit to splitting it across keys, and a single gob blob keeps
// the on-disk layout entirely opaque to package cfr, per spec §6.
var checkpointKey = []byte("cfrsolve/checkpoint")

// checkpointStore is a thin LevelDB-backed wrapper around Solver.Checkpoint
// and Solver.Restore. Package cfr never imports goleveldb or knows this
// type exists; only this command does.
type checkpointStore struct {
	db *leveldb.DB
}

func openCheckpointStore(path string) (*checkpointStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &checkpointStore{db: db}, nil
}

func (s *checkpointStore) Close() error {
	return s.db.Close()
}

type checkpointPayload struct {
	Iteration int
	States    map[game.InformationSet]cfr.PerInfoSetState
}

// Save gob-encodes the full per-information-set state map plus the
// iteration counter and writes it under one key.
func (s *checkpointStore) Save(iteration int, states map[game.InformationSet]cfr.PerInfoSetState) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(checkpointPayload{Iteration: iteration, States: states}); err != nil {
		return errors.Wrap(err, "gob encode checkpoint")
	}
	return s.db.Put(checkpointKey, buf.Bytes(), nil)
}

// Load reads and gob-decodes the checkpoint previously written by Save.
func (s *checkpointStore) Load() (int, map[game.InformationSet]cfr.PerInfoSetState, error) {
	raw, err := s.db.Get(checkpointKey, nil)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read checkpoint key")
	}

	var payload checkpointPayload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err != nil {
		return 0, nil, errors.Wrap(err, "gob decode checkpoint")
	}
	return payload.Iteration, payload.States, nil
}
