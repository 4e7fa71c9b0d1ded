package remux

import (
	"math"
	"math/big"

	"tscut/domain/media"
)

// Rescale converts v from the src time base to the dst time base:
// v·src.Num·dst.Den / (src.Den·dst.Num), rounded to nearest with halves
// away from zero. NoTimestamp is returned unchanged, as is v when either
// time base is invalid.
func Rescale(v int64, src, dst media.Rational) int64 {
	if v == media.NoTimestamp || !src.Valid() || !dst.Valid() {
		return v
	}
	if src == dst {
		return v
	}

	num := new(big.Int).SetInt64(v)
	num.Mul(num, big.NewInt(src.Num))
	num.Mul(num, big.NewInt(dst.Den))

	den := new(big.Int).SetInt64(src.Den)
	den.Mul(den, big.NewInt(dst.Num))

	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	r.Abs(r).Lsh(r, 1)
	if r.Cmp(den) >= 0 {
		if num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}

	if !q.IsInt64() {
		if q.Sign() < 0 {
			return math.MinInt64 + 1
		}
		return math.MaxInt64
	}
	return q.Int64()
}

// RescalePacket rewrites the timestamps of pkt into the dst time base and
// clears its byte position, which is meaningless in another container
func RescalePacket(pkt *media.Packet, src, dst media.Rational) {
	pkt.PTS = Rescale(pkt.PTS, src, dst)
	pkt.DTS = Rescale(pkt.DTS, src, dst)
	pkt.Duration = Rescale(pkt.Duration, src, dst)
	pkt.Pos = media.UnknownPosition
}
