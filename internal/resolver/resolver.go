package resolver

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
)

// Incoming is one sighting of a ROM reported by a source scan.
type Incoming struct {
	PlatformID int64
	Name       string
	FileName   string
	FileSize   int64
	Regions    string // JSON array, may be empty

	HashMD5 string

	SourceID    int64
	SourceRomID string
	SourceURL   string
}

// Resolver folds source sightings into canonical catalog entries.
// Identity is content-first: a hash match wins over a file name match,
// and existing values never regress.
type Resolver struct {
	roms    *db.RomDAO
	sources *db.SourceDAO
}

// New wires a resolver to the catalog DAOs.
func New(roms *db.RomDAO, sources *db.SourceDAO) *Resolver {
	return &Resolver{roms: roms, sources: sources}
}

// Upsert resolves one sighting to an entry id, creating the entry when
// neither hash nor file name matches. created reports a fresh insert.
func (r *Resolver) Upsert(ctx context.Context, in Incoming) (int64, bool, error) {
	if in.Regions == "" {
		in.Regions = "[]"
	}

	if in.HashMD5 != "" {
		id, found, err := r.roms.FindIDByHash(ctx, in.PlatformID, in.HashMD5)
		if err != nil {
			return 0, false, err
		}
		if found {
			return id, false, r.link(ctx, id, in)
		}
	}

	id, found, err := r.roms.FindIDByFileName(ctx, in.PlatformID, in.FileName)
	if err != nil {
		return 0, false, err
	}
	if found {
		if err := r.roms.CoalesceUpdate(ctx, id, in.Name, in.FileSize, in.Regions, in.HashMD5); err != nil {
			return 0, false, err
		}
		return id, false, r.link(ctx, id, in)
	}

	name := in.Name
	if name == "" {
		name = in.FileName
	}
	id, err = r.roms.Insert(ctx, model.Rom{
		PlatformID: in.PlatformID,
		Name:       name,
		FileName:   in.FileName,
		FileSize:   in.FileSize,
		Regions:    in.Regions,
		HashMD5:    in.HashMD5,
	})
	if err != nil {
		return 0, false, err
	}
	return id, true, r.link(ctx, id, in)
}

func (r *Resolver) link(ctx context.Context, romID int64, in Incoming) error {
	return r.sources.Link(ctx, model.SourceLink{
		RomID:       romID,
		SourceID:    in.SourceID,
		SourceRomID: in.SourceRomID,
		SourceURL:   in.SourceURL,
		FileName:    in.FileName,
		HashMD5:     in.HashMD5,
	})
}

// Reconcile collapses entries sharing (platform, md5) into the oldest
// one, retargeting dependent rows, and returns how many duplicates were
// merged away. Running it again on a clean catalog merges nothing.
func (r *Resolver) Reconcile(ctx context.Context) (int64, error) {
	groups, err := r.roms.ListDuplicateGroups(ctx)
	if err != nil {
		return 0, err
	}

	logger := logutil.GetLogger(ctx)
	var merged int64
	for _, group := range groups {
		ids, err := r.roms.ListGroupIDs(ctx, group.PlatformID, group.HashMD5)
		if err != nil {
			return merged, err
		}
		if len(ids) < 2 {
			continue
		}
		keeper := ids[0]
		for _, dupe := range ids[1:] {
			if err := r.roms.MergeInto(ctx, keeper, dupe); err != nil {
				return merged, fmt.Errorf("merge rom %d into %d: %w", dupe, keeper, err)
			}
			merged++
		}
		logger.Debug("merged duplicate group",
			zap.Int64("keeper", keeper),
			zap.Int("duplicates", len(ids)-1),
			zap.String("md5", group.HashMD5),
		)
	}
	return merged, nil
}
