package munit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterMap(t *testing.T) {
	assert.Nil(t, NewFilterMap(""))
	assert.Nil(t, NewFilterMap(",,  ,@, &, "))

	fm := NewFilterMap("unit-a, ,, @group-b, unit-c,,")
	require.NotNil(t, fm)
	assert.True(t, fm.Match(Unit{Name: "unit-a"}))
	assert.True(t, fm.Match(Unit{Name: "unit-b", Group: ptr("group-b")}))
	assert.True(t, fm.Match(Unit{Name: "unit-c", Group: ptr("group-c")}))
	assert.False(t, fm.Match(Unit{Name: "unit-d", Group: ptr("group-d")}))
}

func TestFilterMapDefaultGroup(t *testing.T) {
	fm := NewFilterMap("@default")
	assert.True(t, fm.Match(Unit{Name: "anything"}))
	assert.False(t, fm.Match(Unit{Name: "anything", Group: ptr("jobs")}))
}

func TestFilterMapKind(t *testing.T) {
	fm := NewFilterMap("&cron, @jobs")
	assert.True(t, fm.Match(Unit{Kind: KindCron, Name: "tick"}))
	assert.True(t, fm.Match(Unit{Kind: KindOnce, Name: "seed", Group: ptr("jobs")}))
	assert.False(t, fm.Match(Unit{Kind: KindDaemon, Name: "web"}))

	// kind tags are matched exactly
	assert.False(t, NewFilterMap("&CRON").Match(Unit{Kind: KindCron, Name: "tick"}))

	f := NewFilter("", "&cron")
	assert.False(t, f.Match(Unit{Kind: KindCron, Name: "tick"}))
	assert.True(t, f.Match(Unit{Kind: KindDaemon, Name: "web"}))

	f = NewFilter("&render,&once", "")
	assert.True(t, f.Match(Unit{Kind: KindRender, Name: "conf"}))
	assert.True(t, f.Match(Unit{Kind: KindOnce, Name: "seed"}))
	assert.False(t, f.Match(Unit{Kind: KindDaemon, Name: "web"}))
}

func TestFilter(t *testing.T) {
	f := NewFilter("  ,  , , ", ",, ,")
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("unit-%d", i)
		assert.True(t, f.Match(Unit{Name: name, Group: ptr(name)}))
	}

	f = NewFilter("", "unit-a,,,@group-c,,")
	assert.True(t, f.Match(Unit{Name: "unit-b", Group: ptr("group-b")}))
	assert.False(t, f.Match(Unit{Name: "unit-c", Group: ptr("group-c")}))

	f = NewFilter("unit-a,,,@group-c,,", "")
	assert.False(t, f.Match(Unit{Name: "unit-b", Group: ptr("group-b")}))
	assert.True(t, f.Match(Unit{Name: "unit-c", Group: ptr("group-c")}))

	f = NewFilter("unit-a,,,@group-c,,", "unit-c2")
	assert.False(t, f.Match(Unit{Name: "unit-b", Group: ptr("group-b")}))
	assert.True(t, f.Match(Unit{Name: "unit-c", Group: ptr("group-c")}))
	assert.False(t, f.Match(Unit{Name: "unit-c2", Group: ptr("group-c")}))
}

func TestNilFilterKeepsEverything(t *testing.T) {
	var f *Filter
	assert.True(t, f.Match(Unit{Name: "x"}))
}
