// Package archive stores a game's snapshots as a CARv1 file of DAG-CBOR
// blocks. The header root is the CID of the final snapshot.
package archive

import (
	"bufio"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-car"
	"github.com/ipld/go-car/util"
	"github.com/pkg/errors"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

var (
	ErrEmptyArchive = errors.New("archive has no snapshots")
	ErrCIDMismatch  = errors.New("block does not match its CID")
	ErrRootMismatch = errors.New("root is not the final snapshot")
)

// Archive is a decoded game archive.
type Archive struct {
	Root      cid.Cid
	CIDs      []cid.Cid
	Snapshots []chess.Snapshot
}

// Final returns the last snapshot, the position the archive was taken at.
func (a *Archive) Final() chess.Snapshot {
	return a.Snapshots[len(a.Snapshots)-1]
}

// Write encodes snaps in order and writes them to w as a CAR file. It returns
// the root CID.
func Write(w io.Writer, snaps []chess.Snapshot) (cid.Cid, error) {
	if len(snaps) == 0 {
		return cid.Undef, ErrEmptyArchive
	}

	blocks := make([][]byte, len(snaps))
	cids := make([]cid.Cid, len(snaps))
	for i, s := range snaps {
		data, err := EncodeSnapshot(s)
		if err != nil {
			return cid.Undef, errors.Wrapf(err, "snapshot %d", i)
		}
		c, err := SnapshotCID(data)
		if err != nil {
			return cid.Undef, err
		}
		blocks[i], cids[i] = data, c
	}
	root := cids[len(cids)-1]

	bw := bufio.NewWriter(w)
	header := &car.CarHeader{Roots: []cid.Cid{root}, Version: 1}
	if err := car.WriteHeader(header, bw); err != nil {
		return cid.Undef, errors.Wrap(err, "write CAR header")
	}
	for i, data := range blocks {
		if err := util.LdWrite(bw, cids[i].Bytes(), data); err != nil {
			return cid.Undef, errors.Wrapf(err, "write block %d", i)
		}
	}
	if err := bw.Flush(); err != nil {
		return cid.Undef, errors.WithStack(err)
	}
	return root, nil
}

// Read decodes a CAR file written by Write. Every block is checked against its
// CID and the root must name the last block.
func Read(r io.Reader) (*Archive, error) {
	reader, err := car.NewCarReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CAR reader")
	}
	if len(reader.Header.Roots) != 1 {
		return nil, errors.Errorf("expected one root, got %d", len(reader.Header.Roots))
	}

	a := &Archive{Root: reader.Header.Roots[0]}
	for {
		block, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read block")
		}

		data := block.RawData()
		want, err := block.Cid().Prefix().Sum(data)
		if err != nil {
			return nil, errors.Wrap(err, "hash block")
		}
		if !want.Equals(block.Cid()) {
			return nil, errors.Wrapf(ErrCIDMismatch, "block %s", block.Cid())
		}

		s, err := DecodeSnapshot(data)
		if err != nil {
			return nil, errors.Wrapf(err, "block %s", block.Cid())
		}
		a.CIDs = append(a.CIDs, block.Cid())
		a.Snapshots = append(a.Snapshots, s)
	}

	if len(a.Snapshots) == 0 {
		return nil, ErrEmptyArchive
	}
	if !a.CIDs[len(a.CIDs)-1].Equals(a.Root) {
		return nil, ErrRootMismatch
	}
	return a, nil
}
