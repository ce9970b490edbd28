package archive

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-car"
	"github.com/ipld/go-car/util"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

func playedSnapshots(t *testing.T) []chess.Snapshot {
	t.Helper()
	g := chess.NewGame()
	snaps := []chess.Snapshot{g.Snapshot()}
	for _, m := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		_, err := g.ApplyMove(chess.MustSquare(m[0]), chess.MustSquare(m[1]), chess.NoKind)
		require.NoError(t, err)
		snaps = append(snaps, g.Snapshot())
	}
	return snaps
}

func TestSnapshotCodec(t *testing.T) {
	g, err := chess.NewGameFromPreset(chess.PresetPromotion,
		chess.WithCaptureResolver(chess.NewConvertCapture(nil)))
	require.NoError(t, err)
	_, err = g.ApplyMove(chess.MustSquare("a7"), chess.MustSquare("a8"), chess.NoKind)
	require.NoError(t, err)

	snap := g.Snapshot()
	require.NotNil(t, snap.Pending)

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)

	again, err := EncodeSnapshot(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding is deterministic")
}

func TestSnapshotCID(t *testing.T) {
	data, err := EncodeSnapshot(chess.NewGame().Snapshot())
	require.NoError(t, err)

	c, err := SnapshotCID(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Version())
	assert.Equal(t, uint64(cid.DagCBOR), c.Type())
	assert.Equal(t, uint64(multihash.SHA2_256), c.Prefix().MhType)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestArchiveRoundTrip(t *testing.T) {
	snaps := playedSnapshots(t)

	var buf bytes.Buffer
	root, err := Write(&buf, snaps)
	require.NoError(t, err)

	a, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, root.Equals(a.Root))
	assert.Equal(t, snaps, a.Snapshots)
	assert.Len(t, a.CIDs, len(snaps))
	assert.Equal(t, snaps[len(snaps)-1], a.Final())

	restored, err := chess.Restore(a.Final(), nil)
	require.NoError(t, err)
	assert.Equal(t, chess.StatusDarkWon, restored.Status())
}

func TestArchiveEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, nil)
	assert.ErrorIs(t, err, ErrEmptyArchive)
}

func TestArchiveDetectsTampering(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, playedSnapshots(t))
	require.NoError(t, err)

	data := buf.Bytes()
	data[len(data)-1] ^= 0x01
	_, err = Read(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestArchiveRootMustBeFinal(t *testing.T) {
	snaps := playedSnapshots(t)[:2]
	var cids []cid.Cid
	var blocks [][]byte
	for _, s := range snaps {
		data, err := EncodeSnapshot(s)
		require.NoError(t, err)
		c, err := SnapshotCID(data)
		require.NoError(t, err)
		cids = append(cids, c)
		blocks = append(blocks, data)
	}

	var buf bytes.Buffer
	require.NoError(t, car.WriteHeader(&car.CarHeader{Roots: []cid.Cid{cids[0]}, Version: 1}, &buf))
	for i := range blocks {
		require.NoError(t, util.LdWrite(&buf, cids[i].Bytes(), blocks[i]))
	}

	_, err := Read(&buf)
	assert.ErrorIs(t, err, ErrRootMismatch)
}
