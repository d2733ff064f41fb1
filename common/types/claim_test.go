package types

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClaimOrdering(t *testing.T) {
	a := &Claim{Origin: SelfOrigin(), Timestamp: time.Unix(500, 0)}
	b := &Claim{Origin: PartnerOrigin("p1"), Timestamp: time.Unix(100, 0)}
	c := &Claim{Origin: PartnerOrigin("p2"), Timestamp: time.Unix(50, 0)}

	claims := []*Claim{b, c, a}
	sort.SliceStable(claims, func(i, j int) bool { return claims[i].Less(claims[j]) })
	require.Equal(t, []*Claim{a, c, b}, claims)

	require.False(t, a.Less(a))
	require.False(t, b.Less(c))
	require.True(t, c.Less(b))
}

func TestOrigin(t *testing.T) {
	self := SelfOrigin()
	require.True(t, self.IsSelf())
	_, ok := self.Partner()
	require.False(t, ok)

	p := PartnerOrigin("")
	require.False(t, p.IsSelf())
	name, ok := p.Partner()
	require.True(t, ok)
	require.Empty(t, name)
	require.Equal(t, "partner:x", PartnerOrigin("x").String())
}

func TestBucketOf(t *testing.T) {
	interval := time.Hour
	require.Equal(t, Bucket(0), BucketOf(time.Unix(3599, 0), interval))
	require.Equal(t, Bucket(1), BucketOf(time.Unix(3600, 0), interval))
	require.Equal(t, time.Unix(7200, 0), Bucket(2).Start(interval))
	require.Equal(t, Bucket(0), BucketOf(time.Unix(-10, 0), interval))
}
