package archive

import (
	"bytes"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

// blockPrefix is the CID format of every archive block: CIDv1, dag-cbor, sha2-256.
var blockPrefix = cid.Prefix{
	Version:  1,
	Codec:    cid.DagCBOR,
	MhType:   multihash.SHA2_256,
	MhLength: -1,
}

// EncodeSnapshot serializes s as a DAG-CBOR map.
func EncodeSnapshot(s chess.Snapshot) ([]byte, error) {
	node, err := snapshotNode(s)
	if err != nil {
		return nil, errors.Wrap(err, "build snapshot node")
	}
	var buf bytes.Buffer
	if err := dagcbor.Encode(node, &buf); err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return buf.Bytes(), nil
}

// SnapshotCID returns the content identifier of an encoded snapshot.
func SnapshotCID(data []byte) (cid.Cid, error) {
	c, err := blockPrefix.Sum(data)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "hash block")
	}
	return c, nil
}

func snapshotNode(s chess.Snapshot) (datamodel.Node, error) {
	return qp.BuildMap(basicnode.Prototype.Any, 7, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "squares", qp.List(64, func(la datamodel.ListAssembler) {
			for _, code := range s.Squares {
				qp.ListEntry(la, qp.String(code))
			}
		}))
		qp.MapEntry(ma, "turn", qp.String(s.Turn.String()))
		qp.MapEntry(ma, "castling", qp.Map(6, func(ma datamodel.MapAssembler) {
			c := s.Castling
			qp.MapEntry(ma, "lightKingMoved", qp.Bool(c.LightKingMoved))
			qp.MapEntry(ma, "darkKingMoved", qp.Bool(c.DarkKingMoved))
			qp.MapEntry(ma, "lightQueensideRookMoved", qp.Bool(c.LightQueensideRookMoved))
			qp.MapEntry(ma, "lightKingsideRookMoved", qp.Bool(c.LightKingsideRookMoved))
			qp.MapEntry(ma, "darkQueensideRookMoved", qp.Bool(c.DarkQueensideRookMoved))
			qp.MapEntry(ma, "darkKingsideRookMoved", qp.Bool(c.DarkKingsideRookMoved))
		}))
		qp.MapEntry(ma, "policy", qp.String(string(s.Policy)))
		qp.MapEntry(ma, "preset", qp.String(string(s.Preset)))
		qp.MapEntry(ma, "fullmove", qp.Int(int64(s.Fullmove)))
		if p := s.Pending; p != nil {
			qp.MapEntry(ma, "pending", qp.Map(3, func(ma datamodel.MapAssembler) {
				qp.MapEntry(ma, "from", qp.String(p.From.String()))
				qp.MapEntry(ma, "square", qp.String(p.Square.String()))
				qp.MapEntry(ma, "side", qp.String(p.Side.String()))
			}))
		} else {
			qp.MapEntry(ma, "pending", qp.Null())
		}
	})
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(data []byte) (chess.Snapshot, error) {
	var s chess.Snapshot

	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(data)); err != nil {
		return s, errors.Wrap(err, "decode CBOR")
	}
	raw, err := nodeToGo(nb.Build())
	if err != nil {
		return s, err
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return s, errors.New("snapshot block is not a map")
	}

	squares, ok := m["squares"].([]interface{})
	if !ok || len(squares) != 64 {
		return s, errors.Errorf("snapshot needs 64 squares, got %d", len(squares))
	}
	for i, v := range squares {
		code, ok := v.(string)
		if !ok {
			return s, errors.Errorf("square %d is not a string", i)
		}
		s.Squares[i] = code
	}

	if err := s.Turn.UnmarshalText([]byte(stringField(m, "turn"))); err != nil {
		return s, errors.Wrap(err, "turn")
	}
	s.Policy = chess.CapturePolicy(stringField(m, "policy"))
	s.Preset = chess.Preset(stringField(m, "preset"))
	if n, ok := m["fullmove"].(int64); ok {
		s.Fullmove = int(n)
	}

	if c, ok := m["castling"].(map[string]interface{}); ok {
		s.Castling = chess.CastlingRights{
			LightKingMoved:          boolField(c, "lightKingMoved"),
			DarkKingMoved:           boolField(c, "darkKingMoved"),
			LightQueensideRookMoved: boolField(c, "lightQueensideRookMoved"),
			LightKingsideRookMoved:  boolField(c, "lightKingsideRookMoved"),
			DarkQueensideRookMoved:  boolField(c, "darkQueensideRookMoved"),
			DarkKingsideRookMoved:   boolField(c, "darkKingsideRookMoved"),
		}
	}

	if p, ok := m["pending"].(map[string]interface{}); ok {
		var pending chess.PendingPromotion
		if err := pending.From.UnmarshalText([]byte(stringField(p, "from"))); err != nil {
			return s, errors.Wrap(err, "pending from")
		}
		if err := pending.Square.UnmarshalText([]byte(stringField(p, "square"))); err != nil {
			return s, errors.Wrap(err, "pending square")
		}
		if err := pending.Side.UnmarshalText([]byte(stringField(p, "side"))); err != nil {
			return s, errors.Wrap(err, "pending side")
		}
		s.Pending = &pending
	}
	return s, nil
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func boolField(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func nodeToGo(node ipld.Node) (interface{}, error) {
	switch node.Kind() {
	case ipld.Kind_Map:
		m := make(map[string]interface{})
		iter := node.MapIterator()
		for !iter.Done() {
			k, v, err := iter.Next()
			if err != nil {
				return nil, err
			}
			keyStr, err := k.AsString()
			if err != nil {
				return nil, err
			}
			val, err := nodeToGo(v)
			if err != nil {
				return nil, err
			}
			m[keyStr] = val
		}
		return m, nil

	case ipld.Kind_List:
		var list []interface{}
		iter := node.ListIterator()
		for !iter.Done() {
			_, v, err := iter.Next()
			if err != nil {
				return nil, err
			}
			val, err := nodeToGo(v)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil

	case ipld.Kind_String:
		return node.AsString()

	case ipld.Kind_Int:
		return node.AsInt()

	case ipld.Kind_Bool:
		return node.AsBool()

	case ipld.Kind_Null:
		return nil, nil

	default:
		return nil, errors.Errorf("unsupported node kind: %v", node.Kind())
	}
}
